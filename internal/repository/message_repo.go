package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boxing-forum/internal/domain"
)

// MessageRepository define el contrato del log append-only de mensajes.
type MessageRepository interface {
	Insert(ctx context.Context, message domain.Message) (domain.Message, error)
	ListRecent(ctx context.Context, limit int) ([]domain.FeedMessage, error)
	GetByID(ctx context.Context, id string) (domain.FeedMessage, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Insert persiste el mensaje; created_at lo asigna el servidor en el commit.
func (r *PgMessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	const query = `
		INSERT INTO messages (id, author_id, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.AuthorID,
		message.Content,
	).Scan(&message.CreatedAt)
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

const feedMessageColumns = `
	m.id, m.author_id, m.content, m.created_at,
	i.username, i.display_name, i.avatar_url
`

func (r *PgMessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.FeedMessage, error) {
	const query = `
		SELECT ` + feedMessageColumns + `
		FROM messages m
		JOIN identities i ON i.id = m.author_id
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.FeedMessage
	for rows.Next() {
		msg, err := scanFeedMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PgMessageRepository) GetByID(ctx context.Context, id string) (domain.FeedMessage, error) {
	const query = `
		SELECT ` + feedMessageColumns + `
		FROM messages m
		JOIN identities i ON i.id = m.author_id
		WHERE m.id = $1
	`
	msg, err := scanFeedMessage(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.FeedMessage{}, err
	}
	return msg, err
}

func scanFeedMessage(row pgx.Row) (domain.FeedMessage, error) {
	var msg domain.FeedMessage
	err := row.Scan(
		&msg.ID,
		&msg.AuthorID,
		&msg.Content,
		&msg.CreatedAt,
		&msg.Author.Username,
		&msg.Author.DisplayName,
		&msg.Author.AvatarURL,
	)
	return msg, err
}
