package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boxing-forum/internal/domain"
)

type mockSecretRepo struct {
	creds []domain.SecretCredential
	err   error
}

func (m *mockSecretRepo) ListCredentials(_ context.Context) ([]domain.SecretCredential, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.creds, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash %q: %v", password, err)
	}
	return string(hash)
}

func TestSecretServiceUnlock(t *testing.T) {
	repo := &mockSecretRepo{creds: []domain.SecretCredential{
		{PasswordHash: mustHash(t, "alpha"), ContentKey: "keyA"},
		{PasswordHash: mustHash(t, "beta"), ContentKey: "keyB"},
	}}
	svc := NewSecretService(zap.NewNop(), repo)

	key, err := svc.Unlock(context.Background(), "alpha")
	if err != nil || key != "keyA" {
		t.Fatalf("expected keyA, got %q,%v", key, err)
	}

	key, err = svc.Unlock(context.Background(), "beta")
	if err != nil || key != "keyB" {
		t.Fatalf("expected keyB, got %q,%v", key, err)
	}

	if _, err := svc.Unlock(context.Background(), "gamma"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	if _, err := svc.Unlock(context.Background(), ""); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("expected ErrMalformedRequest, got %v", err)
	}
}

func TestSecretServiceUnlock_StoreFailure(t *testing.T) {
	storeErr := errors.New("store unreachable")
	svc := NewSecretService(zap.NewNop(), &mockSecretRepo{err: storeErr})

	if _, err := svc.Unlock(context.Background(), "alpha"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestSecretServiceUnlock_EmptySet(t *testing.T) {
	svc := NewSecretService(zap.NewNop(), &mockSecretRepo{})

	if _, err := svc.Unlock(context.Background(), "alpha"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword on empty set, got %v", err)
	}
}
