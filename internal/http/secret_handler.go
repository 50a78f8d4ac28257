package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boxing-forum/internal/service"
)

// SecretHandler mantiene dependencias para el endpoint del contenido secreto.
type SecretHandler struct {
	logger     *zap.Logger
	secretServ *service.SecretService
}

// NewSecretHandler crea una instancia de SecretHandler con dependencias necesarias.
func NewSecretHandler(logger *zap.Logger, secretServ *service.SecretService) *SecretHandler {
	return &SecretHandler{
		logger:     logger,
		secretServ: secretServ,
	}
}

// Unlock maneja POST /secret.
func (h *SecretHandler) Unlock(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contentKey, err := h.secretServ.Unlock(c.Request.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password required"})
		case errors.Is(err, service.ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong password"})
		default:
			h.logger.Error("secret unlock failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"content_key": contentKey})
}
