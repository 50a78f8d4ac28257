package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenService emite y valida los tokens opacos de sesion.
// Cada token lleva un jti registrado en el SessionTokenStore, de modo que
// el logout lo invalida antes de su expiracion natural.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  SessionTokenStore
}

type SessionClaims struct {
	IdentityID string `json:"uid"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

func NewSessionTokenService(secret string, ttl time.Duration, store SessionTokenStore) *SessionTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if store == nil {
		store = NewMemorySessionTokenStore()
	}
	return &SessionTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "boxing-forum",
		store:  store,
	}
}

// Issue firma un token nuevo para la identidad y registra su jti.
func (s *SessionTokenService) Issue(identityID, username string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()
	claims := SessionClaims{
		IdentityID: identityID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.store.Store(jti, identityID, s.ttl); err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse valida firma, claims y presencia del jti en el store.
func (s *SessionTokenService) Parse(tokenString string) (SessionClaims, error) {
	if len(s.secret) == 0 {
		return SessionClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return SessionClaims{}, err
	}
	if !s.isValidClaims(claims) {
		return SessionClaims{}, ErrTokenInvalid
	}
	ok, err := s.store.Exists(claims.ID)
	if err != nil || !ok {
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke invalida el jti del token; es idempotente y tolera tokens ya
// expirados o malformados.
func (s *SessionTokenService) Revoke(tokenString string) error {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return nil
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	if claims.ID == "" {
		return nil
	}
	return s.store.Revoke(claims.ID)
}

func (s *SessionTokenService) parseToken(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *SessionTokenService) isValidClaims(claims SessionClaims) bool {
	if strings.TrimSpace(claims.IdentityID) == "" {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.Subject != claims.IdentityID {
		return false
	}
	if claims.ID == "" {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
