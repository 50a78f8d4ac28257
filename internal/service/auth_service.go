package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boxing-forum/internal/domain"
	"boxing-forum/internal/repository"
)

// AuthService coordina altas, logins y el estado de sesion de los clientes.
type AuthService struct {
	logger     *zap.Logger
	identities repository.IdentityRepository
	tokens     *SessionTokenService
}

var (
	ErrDuplicateUsername       = errors.New("duplicate username")
	ErrInvalidCredentialFormat = errors.New("invalid credential format")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrNoSession               = errors.New("no active session")
	ErrIdentityNotFound        = errors.New("identity not found")
)

// handleDomain es el dominio sintetico que liga usernames al sustrato de
// autenticacion. El handle es funcion pura del username normalizado, asi que
// es estable y libre de colisiones mientras el username sea unico.
const handleDomain = "boxingforum.local"

const minPasswordLength = 6

func NewAuthService(logger *zap.Logger, identities repository.IdentityRepository, tokens *SessionTokenService) *AuthService {
	return &AuthService{
		logger:     logger,
		identities: identities,
		tokens:     tokens,
	}
}

// SignUp crea la identidad y su credencial y devuelve una sesion activa.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (domain.Session, error) {
	username = normalizeUsername(username)
	if !isValidUsername(username) {
		return domain.Session{}, ErrInvalidCredentialFormat
	}
	if len(password) < minPasswordLength {
		return domain.Session{}, ErrInvalidCredentialFormat
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}

	identity := domain.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		Handle:       handleFor(username),
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return domain.Session{}, ErrDuplicateUsername
		}
		return domain.Session{}, err
	}

	return s.openSession(identity)
}

// SignIn verifica la credencial. Username desconocido y password incorrecto
// producen el mismo error generico.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (domain.Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	identity, err := s.identities.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}
	if identity.PasswordHash == "" {
		return domain.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	return s.openSession(identity)
}

// SignOut revoca el token de sesion; es idempotente.
func (s *AuthService) SignOut(token string) error {
	return s.tokens.Revoke(token)
}

// CurrentSession resuelve el token persistido por el cliente a una sesion
// viva con el perfil actual de la identidad.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (domain.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Session{}, ErrNoSession
	}

	identity, err := s.identities.GetByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, err
	}

	return domain.Session{
		Token:     token,
		Identity:  identity,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RefreshProfile relee los campos mutables del perfil tras una actualizacion
// externa (display name o avatar).
func (s *AuthService) RefreshProfile(ctx context.Context, identityID string) (domain.Identity, error) {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, ErrIdentityNotFound
		}
		return domain.Identity{}, err
	}
	return identity, nil
}

// UpdateProfile muta los campos de perfil propios de la identidad y devuelve
// la identidad releida.
func (s *AuthService) UpdateProfile(ctx context.Context, identityID, displayName, avatarURL string) (domain.Identity, error) {
	displayName = strings.TrimSpace(displayName)
	if err := s.identities.UpdateProfile(ctx, identityID, displayName, avatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, ErrIdentityNotFound
		}
		return domain.Identity{}, err
	}
	return s.RefreshProfile(ctx, identityID)
}

func (s *AuthService) openSession(identity domain.Identity) (domain.Session, error) {
	token, expiresAt, err := s.tokens.Issue(identity.ID, identity.Username)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token:     token,
		Identity:  identity,
		ExpiresAt: expiresAt,
	}, nil
}

func handleFor(username string) string {
	return username + "@" + handleDomain
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func isValidUsername(username string) bool {
	if username == "" {
		return false
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		if r == '_' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return true
}
