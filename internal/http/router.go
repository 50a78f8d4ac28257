package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boxing-forum/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authSvc *service.AuthService,
	authH *AuthHandler,
	profileH *ProfileHandler,
	messageH *MessageHandler,
	feedH *FeedHandler,
	secretH *SecretHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	requireSession := SessionAuthMiddleware(authSvc)

	auth := r.Group("/auth")
	auth.POST("/signup", authH.SignUp)
	auth.POST("/login", authH.SignIn)
	auth.POST("/logout", requireSession, authH.SignOut)
	auth.GET("/session", requireSession, authH.Session)

	profile := r.Group("/profile", requireSession)
	profile.GET("", profileH.GetProfile)
	profile.PUT("", profileH.UpdateProfile)
	profile.POST("/avatar", profileH.UploadAvatar)

	r.GET("/messages", messageH.ListMessages)
	r.POST("/messages", requireSession, messageH.PostMessage)

	r.GET("/ws", feedH.Stream)

	r.POST("/secret", secretH.Unlock)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.IsWebsocket() {
			c.Next()
			return
		}
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
