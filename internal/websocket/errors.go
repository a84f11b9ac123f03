package websocket

import "errors"

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrHubStopped     = errors.New("hub stopped")
)
