package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"boxing-forum/internal/domain"
	"boxing-forum/internal/repository"
)

type mockIdentityRepo struct {
	byID       map[string]domain.Identity
	byUsername map[string]string
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{
		byID:       make(map[string]domain.Identity),
		byUsername: make(map[string]string),
	}
}

func (m *mockIdentityRepo) Create(_ context.Context, identity domain.Identity) error {
	if _, taken := m.byUsername[identity.Username]; taken {
		return repository.ErrUsernameTaken
	}
	m.byID[identity.ID] = identity
	m.byUsername[identity.Username] = identity.ID
	return nil
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (domain.Identity, error) {
	identity, ok := m.byID[id]
	if !ok {
		return domain.Identity{}, pgx.ErrNoRows
	}
	return identity, nil
}

func (m *mockIdentityRepo) GetByUsername(_ context.Context, username string) (domain.Identity, error) {
	id, ok := m.byUsername[username]
	if !ok {
		return domain.Identity{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockIdentityRepo) UpdateProfile(_ context.Context, id, displayName, avatarURL string) error {
	identity, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.DisplayName = displayName
	identity.AvatarURL = avatarURL
	m.byID[id] = identity
	return nil
}

func newTestAuthService(repo *mockIdentityRepo) *AuthService {
	tokens := NewSessionTokenService("test-secret", time.Hour, NewMemorySessionTokenStore())
	return NewAuthService(zap.NewNop(), repo, tokens)
}

func TestAuthServiceSignUp_CreatesIdentityAndSession(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	session, err := svc.SignUp(context.Background(), "  Rocky ", "secret1")
	if err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected session token")
	}
	if session.Identity.Username != "rocky" {
		t.Fatalf("expected normalized username rocky, got %q", session.Identity.Username)
	}
	if session.Identity.Handle != "rocky@boxingforum.local" {
		t.Fatalf("unexpected synthetic handle %q", session.Identity.Handle)
	}
	if session.Identity.PasswordHash == "" || session.Identity.PasswordHash == "secret1" {
		t.Fatalf("expected hashed password, got %q", session.Identity.PasswordHash)
	}

	current, err := svc.CurrentSession(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("expected current session, got %v", err)
	}
	if current.Identity.ID != session.Identity.ID {
		t.Fatalf("expected same identity, got %q vs %q", current.Identity.ID, session.Identity.ID)
	}
}

func TestAuthServiceSignUp_RejectsInvalidFormat(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "   ", "secret1"},
		{"short password", "rocky", "12345"},
		{"username with spaces", "rocky balboa", "secret1"},
	}
	for _, tc := range cases {
		if _, err := svc.SignUp(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentialFormat) {
			t.Fatalf("%s: expected ErrInvalidCredentialFormat, got %v", tc.name, err)
		}
	}
}

func TestAuthServiceSignUp_DuplicateUsername(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	first, err := svc.SignUp(context.Background(), "rocky", "secret1")
	if err != nil {
		t.Fatalf("expected first signup success, got %v", err)
	}
	storedHash := repo.byID[first.Identity.ID].PasswordHash

	// Misma cuenta con distinto case: colisiona tras normalizar.
	_, err = svc.SignUp(context.Background(), "ROCKY", "other-password")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	if repo.byID[first.Identity.ID].PasswordHash != storedHash {
		t.Fatalf("expected first credential untouched")
	}
}

func TestAuthServiceSignIn_GenericError(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.SignUp(context.Background(), "rocky", "secret1"); err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}

	if _, err := svc.SignIn(context.Background(), "unknown", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "rocky", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	session, err := svc.SignIn(context.Background(), "Rocky", "secret1")
	if err != nil {
		t.Fatalf("expected signin success, got %v", err)
	}
	if session.Identity.Username != "rocky" {
		t.Fatalf("unexpected identity %q", session.Identity.Username)
	}
}

func TestAuthServiceSignOut_IdempotentAndIsolating(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	session, err := svc.SignUp(context.Background(), "rocky", "secret1")
	if err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}

	if err := svc.SignOut(session.Token); err != nil {
		t.Fatalf("expected signout success, got %v", err)
	}
	if _, err := svc.CurrentSession(context.Background(), session.Token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after signout, got %v", err)
	}

	// Repetir el signout no falla.
	if err := svc.SignOut(session.Token); err != nil {
		t.Fatalf("expected idempotent signout, got %v", err)
	}
	if err := svc.SignOut("garbage-token"); err != nil {
		t.Fatalf("expected signout to tolerate junk tokens, got %v", err)
	}
}

func TestAuthServiceUpdateAndRefreshProfile(t *testing.T) {
	repo := newMockIdentityRepo()
	svc := newTestAuthService(repo)

	session, err := svc.SignUp(context.Background(), "rocky", "secret1")
	if err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), session.Identity.ID, " Italian Stallion ", "https://cdn.example/avatar.png")
	if err != nil {
		t.Fatalf("expected update success, got %v", err)
	}
	if updated.DisplayName != "Italian Stallion" {
		t.Fatalf("expected trimmed display name, got %q", updated.DisplayName)
	}
	if updated.AvatarURL != "https://cdn.example/avatar.png" {
		t.Fatalf("unexpected avatar url %q", updated.AvatarURL)
	}

	refreshed, err := svc.RefreshProfile(context.Background(), session.Identity.ID)
	if err != nil {
		t.Fatalf("expected refresh success, got %v", err)
	}
	if refreshed.DisplayName != "Italian Stallion" {
		t.Fatalf("expected refreshed profile, got %q", refreshed.DisplayName)
	}

	if _, err := svc.RefreshProfile(context.Background(), "missing-id"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
