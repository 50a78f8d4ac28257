package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"boxing-forum/internal/domain"
)

// SecretRepository lee las credenciales pre-aprovisionadas del contenido secreto.
type SecretRepository interface {
	ListCredentials(ctx context.Context) ([]domain.SecretCredential, error)
}

// PgSecretRepository implementa SecretRepository usando pgxpool.
type PgSecretRepository struct {
	pool *pgxpool.Pool
}

func NewPgSecretRepository(pool *pgxpool.Pool) *PgSecretRepository {
	return &PgSecretRepository{pool: pool}
}

func (r *PgSecretRepository) ListCredentials(ctx context.Context) ([]domain.SecretCredential, error) {
	const query = `
		SELECT password_hash, content_key
		FROM secret_passwords
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []domain.SecretCredential
	for rows.Next() {
		var c domain.SecretCredential
		if err := rows.Scan(&c.PasswordHash, &c.ContentKey); err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return creds, nil
}
