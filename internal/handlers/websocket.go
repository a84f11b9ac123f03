package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/session"
	ws "github.com/thereayou/classroom-chat/internal/websocket"
)

// WebSocketHandler upgrades authenticated requests and attaches them to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	notifier ws.Notifier
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, notifier ws.Notifier, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		notifier: notifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict to the classroom frontend origin once it has a fixed host
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	id := session.FromGin(c)
	if !id.Valid() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, id.Username)
	if _, err := h.hub.Register(client); err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		if werr := conn.WriteMessage(websocket.CloseMessage, msg); werr != nil {
			h.logger.Debug("websocket close frame failed", zap.Error(werr))
		}
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(h.notifier)
}
