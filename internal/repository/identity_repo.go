package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"boxing-forum/internal/domain"
)

// ErrUsernameTaken indica un alta con username ya registrado.
var ErrUsernameTaken = errors.New("username taken")

// IdentityRepository define el contrato de persistencia para identidades.
type IdentityRepository interface {
	Create(ctx context.Context, identity domain.Identity) error
	GetByID(ctx context.Context, id string) (domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (domain.Identity, error)
	UpdateProfile(ctx context.Context, id, displayName, avatarURL string) error
}

// PgIdentityRepository implementa IdentityRepository usando pgxpool.
type PgIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewPgIdentityRepository(pool *pgxpool.Pool) *PgIdentityRepository {
	return &PgIdentityRepository{pool: pool}
}

func (r *PgIdentityRepository) Create(ctx context.Context, identity domain.Identity) error {
	const query = `
		INSERT INTO identities (id, username, handle, password_hash, display_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Username,
		identity.Handle,
		identity.PasswordHash,
		identity.DisplayName,
		identity.AvatarURL,
		identity.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUsernameTaken
	}
	return err
}

func (r *PgIdentityRepository) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	const query = `
		SELECT id, username, handle, password_hash, display_name, avatar_url, created_at
		FROM identities
		WHERE id = $1
	`
	return r.scanIdentity(r.pool.QueryRow(ctx, query, id))
}

func (r *PgIdentityRepository) GetByUsername(ctx context.Context, username string) (domain.Identity, error) {
	const query = `
		SELECT id, username, handle, password_hash, display_name, avatar_url, created_at
		FROM identities
		WHERE username = $1
	`
	return r.scanIdentity(r.pool.QueryRow(ctx, query, username))
}

func (r *PgIdentityRepository) UpdateProfile(ctx context.Context, id, displayName, avatarURL string) error {
	const query = `
		UPDATE identities
		SET display_name = $2, avatar_url = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, displayName, avatarURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgIdentityRepository) scanIdentity(row pgx.Row) (domain.Identity, error) {
	var i domain.Identity
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Handle,
		&i.PasswordHash,
		&i.DisplayName,
		&i.AvatarURL,
		&i.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, err
	}
	return i, err
}
