package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boxing-forum/internal/media"
	"boxing-forum/internal/service"
)

// maxAvatarBytes limita el tamano de la imagen de perfil subida.
const maxAvatarBytes = 5 << 20

// ProfileHandler mantiene dependencias para endpoints de perfil.
type ProfileHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	storage  media.Storage
}

// NewProfileHandler crea una instancia de ProfileHandler con dependencias necesarias.
func NewProfileHandler(logger *zap.Logger, authServ *service.AuthService, storage media.Storage) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		authServ: authServ,
		storage:  storage,
	}
}

// GetProfile maneja GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	identity, err := h.authServ.RefreshProfile(c.Request.Context(), session.Identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": identity})
}

// UpdateProfile maneja PUT /profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, err := h.authServ.UpdateProfile(c.Request.Context(), session.Identity.ID, req.DisplayName, req.AvatarURL)
	if err != nil {
		h.logger.Error("update profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": identity})
}

// UploadAvatar maneja POST /profile/avatar (multipart, campo "avatar").
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file required"})
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open avatar upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		h.logger.Error("read avatar upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	key := fmt.Sprintf("%s/%d-%s", session.Identity.ID, time.Now().UnixMilli(), filepath.Base(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.storage.Upload(c.Request.Context(), key, contentType, data)
	if err != nil {
		h.logger.Error("avatar upload failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage unavailable"})
		return
	}

	identity, err := h.authServ.UpdateProfile(c.Request.Context(), session.Identity.ID, session.Identity.DisplayName, url)
	if err != nil {
		h.logger.Error("update avatar url failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": identity})
}
