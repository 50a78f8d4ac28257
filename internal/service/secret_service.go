package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boxing-forum/internal/repository"
)

// SecretService valida un password contra el set de credenciales
// pre-aprovisionadas y revela la clave de contenido asociada.
type SecretService struct {
	logger  *zap.Logger
	secrets repository.SecretRepository
}

var (
	ErrWrongPassword    = errors.New("wrong password")
	ErrMalformedRequest = errors.New("malformed request")
)

func NewSecretService(logger *zap.Logger, secrets repository.SecretRepository) *SecretService {
	return &SecretService{
		logger:  logger,
		secrets: secrets,
	}
}

// Unlock compara el password contra cada hash almacenado y corta en el
// primer match. El set es chico y acotado; el escaneo lineal es deliberado.
func (s *SecretService) Unlock(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrMalformedRequest
	}

	creds, err := s.secrets.ListCredentials(ctx)
	if err != nil {
		return "", err
	}

	for _, cred := range creds {
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil {
			return cred.ContentKey, nil
		}
	}

	return "", ErrWrongPassword
}
