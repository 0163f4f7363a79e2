package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

var (
	ErrBackpressure = errors.New("send buffer full")
	ErrConnClosed   = errors.New("connection closed")
)

// wsConn owns one courtroom socket after the handshake. Every outbound frame
// goes through TrySend so only writePump ever writes to the socket.
type wsConn struct {
	raw          core.Conn
	send         chan []byte
	writeTimeout time.Duration
	open         protocol.OpenParams

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func newWSConn(parent context.Context, raw core.Conn, open protocol.OpenParams, buffer int, writeTimeout time.Duration) *wsConn {
	ctx, cancel := context.WithCancel(parent)
	return &wsConn{
		raw:          raw,
		send:         make(chan []byte, buffer),
		writeTimeout: writeTimeout,
		open:         open,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *wsConn) TrySend(f protocol.Frame) error {
	raw, err := protocol.Encode(f)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return fmt.Errorf("%w: %w", domain.ErrNotConnected, ErrConnClosed)
	}
	select {
	case c.send <- []byte(raw):
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.cancel()
	_ = c.raw.Close()
	c.mu.Unlock()
}

func (c *wsConn) Done() <-chan struct{} { return c.ctx.Done() }

func (c *wsConn) writePump() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "session").Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.raw.WriteMessage(websocket.TextMessage, data); err != nil {
				// The read loop sees the closed socket and drives reconnection.
				log.Error().Err(err).Str("module", "session").Msg("writePump write error")
				c.Close()
				return
			}
		}
	}
}
