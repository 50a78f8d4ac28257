package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"boxing-forum/internal/domain"
	"boxing-forum/internal/feed"
	"boxing-forum/internal/repository"
)

// MessageService es la capa de contrato sobre el log de mensajes del canal.
type MessageService struct {
	logger   *zap.Logger
	messages repository.MessageRepository
	notifier feed.Notifier
}

var (
	ErrEmptyContent     = errors.New("empty content")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMessageNotFound  = errors.New("message not found")
)

// maxRecentMessages es la ventana fija de historia; no hay paginacion.
const maxRecentMessages = 100

func NewMessageService(logger *zap.Logger, messages repository.MessageRepository, notifier feed.Notifier) *MessageService {
	return &MessageService{
		logger:   logger,
		messages: messages,
		notifier: notifier,
	}
}

// Append persiste un mensaje del autor de la sesion y publica su id en el
// canal de notificaciones. El propio cliente que publica observa su mensaje
// por la misma via que cualquier otro; no hay eco local.
func (s *MessageService) Append(ctx context.Context, session domain.Session, content string) (domain.Message, error) {
	if session.Identity.ID == "" {
		return domain.Message{}, ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, ErrEmptyContent
	}

	msg, err := s.messages.Insert(ctx, domain.Message{
		ID:       uuid.NewString(),
		AuthorID: session.Identity.ID,
		Content:  content,
	})
	if err != nil {
		return domain.Message{}, err
	}

	// El mensaje ya esta comprometido; un fallo de publicacion solo retrasa
	// su visibilidad hasta la proxima recarga.
	if err := s.notifier.Publish(ctx, msg.ID); err != nil {
		s.logger.Warn("publish message notification failed", zap.Error(err), zap.String("message_id", msg.ID))
	}

	return msg, nil
}

// LoadRecent devuelve la ventana de historia en orden canonico ascendente.
func (s *MessageService) LoadRecent(ctx context.Context, limit int) ([]domain.FeedMessage, error) {
	if limit <= 0 || limit > maxRecentMessages {
		limit = maxRecentMessages
	}
	return s.messages.ListRecent(ctx, limit)
}

// GetByID resuelve una notificacion a su registro completo con autor.
func (s *MessageService) GetByID(ctx context.Context, id string) (domain.FeedMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FeedMessage{}, ErrMessageNotFound
		}
		return domain.FeedMessage{}, err
	}
	return msg, nil
}
