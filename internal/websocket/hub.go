package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Signal is a content-free notification pushed to every connection.
type Signal string

const (
	// SignalStateChanged tells clients to re-fetch messages and users.
	SignalStateChanged Signal = "state_changed"

	// TypeNotifyUpdate is the client frame asking for a broadcast.
	TypeNotifyUpdate = "notify_update"
)

// Frame is the JSON envelope exchanged over the socket.
type Frame struct {
	Type string `json:"type"`
}

// Observer receives hub events; the metrics package implements it.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	SignalDelivered()
	SignalDropped()
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened() {}
func (nopObserver) ConnectionClosed() {}
func (nopObserver) SignalDelivered()  {}
func (nopObserver) SignalDropped()    {}

const signalQueueSize = 16

type Hub struct {
	clients map[uuid.UUID]*Client
	mu      sync.RWMutex
	stopped bool

	signals chan Signal

	logger   *zap.Logger
	observer Observer
}

func NewHub(logger *zap.Logger, observer Observer) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hub{
		clients:  make(map[uuid.UUID]*Client),
		signals:  make(chan Signal, signalQueueSize),
		logger:   logger,
		observer: observer,
	}
}

// Run delivers queued signals until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case signal := <-h.signals:
			h.deliver(signal)
		}
	}
}

// Stop closes every connection. Later registrations are refused.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	for id, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
		h.observer.ConnectionClosed()
	}
}

func (h *Hub) Register(client *Client) (uuid.UUID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return uuid.Nil, ErrHubStopped
	}
	h.clients[client.ID] = client
	h.observer.ConnectionOpened()

	h.logger.Debug("client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("username", client.Username))
	return client.ID, nil
}

// Unregister is safe to call more than once for the same handle.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(client.Send)
	h.observer.ConnectionClosed()

	h.logger.Debug("client unregistered",
		zap.String("client_id", id.String()),
		zap.String("username", client.Username))
}

// Broadcast queues signal for every connection and returns immediately.
// If the queue is full a delivery is already pending, which carries the
// same information, so the signal is dropped.
func (h *Hub) Broadcast(signal Signal) {
	select {
	case h.signals <- signal:
	default:
	}
}

// Notify broadcasts a state change on this instance only.
func (h *Hub) Notify(context.Context) {
	h.Broadcast(SignalStateChanged)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(signal Signal) {
	data, err := json.Marshal(Frame{Type: string(signal)})
	if err != nil {
		h.logger.Error("marshal signal", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- data:
			h.observer.SignalDelivered()
		default:
			// a queued signal already tells this client to re-fetch
			h.observer.SignalDropped()
			h.logger.Debug("client send channel full", zap.String("client_id", client.ID.String()))
		}
	}
}
