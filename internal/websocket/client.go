package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4 * 1024

	sendBufferSize = 8
)

// Notifier fans a state change out, locally or across instances.
type Notifier interface {
	Notify(ctx context.Context)
}

type Client struct {
	ID       uuid.UUID
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	hub      *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		ID:       uuid.New(),
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		hub:      hub,
	}
}

// ReadPump keeps the connection alive and handles client frames.
// It unregisters the client when the connection goes away.
func (c *Client) ReadPump(notifier Notifier) {
	defer func() {
		c.hub.Unregister(c.ID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Info("websocket closed unexpectedly",
					zap.String("client_id", c.ID.String()),
					zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.hub.logger.Debug("ignoring frame",
				zap.String("client_id", c.ID.String()),
				zap.Error(ErrInvalidMessage))
			continue
		}

		if frame.Type == TypeNotifyUpdate && notifier != nil {
			notifier.Notify(context.Background())
		}
	}
}

// WritePump writes queued signals and pings. Signals queued behind the one
// being written are collapsed into it.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			n := len(c.Send)
			for i := 0; i < n; i++ {
				if _, ok := <-c.Send; !ok {
					break
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
