package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"boxing-forum/internal/domain"
	"boxing-forum/internal/feed"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = 54 * time.Second
)

// feedEvent es el frame JSON que viaja por el WebSocket del feed.
type feedEvent struct {
	Type     string               `json:"type"`
	Message  *domain.FeedMessage  `json:"message,omitempty"`
	Messages []domain.FeedMessage `json:"messages,omitempty"`
}

// FeedHandler expone el feed vivo de mensajes sobre WebSocket.
type FeedHandler struct {
	logger       *zap.Logger
	synchronizer *feed.Synchronizer
	upgrader     websocket.Upgrader
}

// NewFeedHandler crea una instancia de FeedHandler con dependencias necesarias.
func NewFeedHandler(logger *zap.Logger, synchronizer *feed.Synchronizer) *FeedHandler {
	return &FeedHandler{
		logger:       logger,
		synchronizer: synchronizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Stream maneja GET /ws: abre un handle del sincronizador, manda el snapshot
// inicial y reenvia cada mensaje nuevo hasta que el cliente se desconecta.
func (h *FeedHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	handle, err := h.synchronizer.Open(c.Request.Context())
	if err != nil {
		h.logger.Error("open feed handle failed", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed unavailable"),
			time.Now().Add(feedWriteWait))
		_ = conn.Close()
		return
	}

	go h.readPump(conn, handle)
	h.writePump(conn, handle)
}

// readPump descarta frames entrantes y detecta la desconexion del cliente.
// Cerrar el handle aqui garantiza que un teardown por navegacion no deje la
// suscripcion viva.
func (h *FeedHandler) readPump(conn *websocket.Conn, handle *feed.LiveFeedHandle) {
	defer func() {
		handle.Close()
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FeedHandler) writePump(conn *websocket.Conn, handle *feed.LiveFeedHandle) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		handle.Close()
		_ = conn.Close()
	}()

	snapshot := handle.Snapshot()
	if snapshot == nil {
		snapshot = []domain.FeedMessage{}
	}
	if err := h.writeEvent(conn, feedEvent{Type: "snapshot", Messages: snapshot}); err != nil {
		return
	}

	for {
		select {
		case msg, ok := <-handle.Updates():
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := h.writeEvent(conn, feedEvent{Type: "message", Message: &msg}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *FeedHandler) writeEvent(conn *websocket.Conn, event feedEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return conn.WriteJSON(event)
}
