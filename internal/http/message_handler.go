package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boxing-forum/internal/domain"
	"boxing-forum/internal/service"
)

// MessageHandler mantiene dependencias para endpoints de mensajes.
type MessageHandler struct {
	logger      *zap.Logger
	messageServ *service.MessageService
}

// NewMessageHandler crea una instancia de MessageHandler con dependencias necesarias.
func NewMessageHandler(logger *zap.Logger, messageServ *service.MessageService) *MessageHandler {
	return &MessageHandler{
		logger:      logger,
		messageServ: messageServ,
	}
}

// ListMessages maneja GET /messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.messageServ.LoadRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
		return
	}
	if messages == nil {
		messages = []domain.FeedMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage maneja POST /messages.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.messageServ.Append(c.Request.Context(), session, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message content required"})
		case errors.Is(err, service.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		default:
			h.logger.Error("post message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post message"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
