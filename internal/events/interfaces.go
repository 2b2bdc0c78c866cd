package events

import (
	"context"
)

// Conn is a single established stream connection. *websocket.Conn satisfies
// it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens stream connections.
type Dialer interface {
	Dial(ctx context.Context, rawURL string) (Conn, error)
}

// TokenSource returns the credential presented in the connection handshake,
// or false when none is available.
type TokenSource func() (string, bool)

// Handler receives events of one type. Handlers run on the connection's
// read goroutine; a slow handler delays later frames.
type Handler func(Event)
