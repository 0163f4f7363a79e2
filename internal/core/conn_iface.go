package core

import (
	"context"
	"time"
)

// Conn is the raw courtroom socket. *websocket.Conn satisfies it.
// Owned by the session; only the session's write pump writes to it after
// the handshake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens a new courtroom socket.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
