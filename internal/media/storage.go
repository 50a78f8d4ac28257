// Package media expone el colaborador de almacenamiento de archivos:
// subir bytes, recibir una URL publica. El core no conoce mas que eso.
package media

import (
	"context"
	"errors"
)

// Storage define la interfaz de subida de archivos publicos.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type disabledStorage struct {
	reason string
}

func NewDisabledStorage(reason string) Storage {
	return &disabledStorage{reason: reason}
}

func (s *disabledStorage) Upload(_ context.Context, _ string, _ string, _ []byte) (string, error) {
	if s.reason == "" {
		return "", errors.New("media storage disabled")
	}
	return "", errors.New(s.reason)
}
