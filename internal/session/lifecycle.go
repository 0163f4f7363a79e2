package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

var (
	ErrSessionClosed = errors.New("session shut down")

	// errReconnectDone cancels a reconnect loop that ended on its own.
	errReconnectDone = errors.New("reconnect loop finished")
)

const defaultPingInterval = 25 * time.Second

// Start makes the first connection. When it fails and auto-reconnect is on,
// recovery continues in the background and the error is still returned.
func (s *Session) Start(ctx context.Context) error {
	err := s.connect(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("initial connect failed")
		s.scheduleReconnect()
	}
	return err
}

// Reconnect drops the current socket and connects again right away,
// clearing the attempt counter and any exhausted condition.
func (s *Session) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.stopReconnectLocked(context.Canceled)
	s.attempts = 0
	s.exhausted = false
	s.autoReconnect = s.opts.Reconnect.Enabled
	old, wasAdmin := s.dropConnLocked()
	s.mu.Unlock()

	log.Info().Str("module", "session").Msg("manual reconnect")
	s.afterDrop(old, wasAdmin)

	if err := s.connect(ctx); err != nil {
		s.scheduleReconnect()
		return err
	}
	s.listener.OnReconnected()
	return nil
}

// Shutdown stops auto-reconnect, asks for a final room snapshot, waits the
// grace period and closes the socket.
func (s *Session) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.autoReconnect = false
	s.stopReconnectLocked(ErrSessionClosed)
	c := s.conn
	s.mu.Unlock()

	if c != nil {
		if f, err := protocol.Event(protocol.EvGetRoom); err == nil {
			if err := c.TrySend(f); err != nil {
				log.Warn().Err(err).Str("module", "session").Msg("final snapshot request failed")
			}
		}
		select {
		case <-s.clock.After(s.opts.ShutdownGrace):
		case <-ctx.Done():
		}
	}

	s.mu.Lock()
	if s.conn == c {
		s.conn = nil
	}
	s.mu.Unlock()
	if c != nil {
		c.Close()
	}
	s.setState(domain.StateDisconnected)

	s.cancel()
	s.wg.Wait()
	s.room.Reset()
	s.pair.Reset()
	log.Info().Str("module", "session").Msg("session closed")
	return nil
}

func (s *Session) connect(ctx context.Context) error {
	s.dialMu.Lock()
	defer s.dialMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}

	s.setState(domain.StateConnecting)
	dialCtx, cancel := context.WithTimeout(ctx, s.opts.HandshakeTimeout)
	defer cancel()

	raw, err := s.opts.Dialer.Dial(dialCtx)
	if err != nil {
		s.failAttempt()
		return fmt.Errorf("connect: %w", err)
	}
	open, err := s.handshake(raw)
	if err != nil {
		_ = raw.Close()
		s.failAttempt()
		return fmt.Errorf("handshake: %w", err)
	}

	c := newWSConn(s.ctx, raw, open, s.opts.SendBuffer, s.opts.WriteTimeout)

	s.mu.Lock()
	if ctx.Err() != nil || s.ctx.Err() != nil {
		s.mu.Unlock()
		c.Close()
		s.failAttempt()
		return fmt.Errorf("connect: attempt superseded")
	}
	s.conn = c
	s.state = domain.StateConnected
	s.attempts = 0
	s.exhausted = false
	s.stopReconnectLocked(errReconnectDone)
	s.mu.Unlock()

	s.wg.Go(c.writePump)
	s.wg.Go(func() { s.readLoop(c) })
	if s.opts.SelfPing {
		s.wg.Go(func() { s.pingLoop(c) })
	}

	for _, name := range []string{protocol.EvMe, protocol.EvGetRoom} {
		if err := s.emit(name); err != nil {
			log.Warn().Err(err).Str("module", "session").Str("event", name).Msg("bootstrap send failed")
		}
	}
	log.Info().Str("module", "session").Str("sid", open.SID).Dur("ping_interval", open.Interval()).Dur("ping_timeout", open.Timeout()).Msg("connected")
	return nil
}

// handshake expects open, answers with a namespace ack and waits for the
// server's ack echo. Anything else fails the attempt.
func (s *Session) handshake(raw core.Conn) (protocol.OpenParams, error) {
	deadline := time.Now().Add(s.opts.HandshakeTimeout)
	if err := raw.SetReadDeadline(deadline); err != nil {
		return protocol.OpenParams{}, err
	}

	s.setState(domain.StateAwaitingOpen)
	f, err := readFrame(raw)
	if err != nil {
		return protocol.OpenParams{}, err
	}
	if f.Kind != protocol.KindOpen {
		return protocol.OpenParams{}, fmt.Errorf("%w: expected open frame, got %s", domain.ErrProtocol, f.Kind)
	}

	s.setState(domain.StateAwaitingAck)
	ack, _ := protocol.Encode(protocol.NamespaceAck())
	if err := raw.SetWriteDeadline(deadline); err != nil {
		return protocol.OpenParams{}, err
	}
	if err := raw.WriteMessage(websocket.TextMessage, []byte(ack)); err != nil {
		return protocol.OpenParams{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	f, err = readFrame(raw)
	if err != nil {
		return protocol.OpenParams{}, err
	}
	if f.Kind != protocol.KindNamespaceAck {
		return protocol.OpenParams{}, fmt.Errorf("%w: expected namespace ack, got %s", domain.ErrProtocol, f.Kind)
	}

	if err := raw.SetReadDeadline(time.Time{}); err != nil {
		return protocol.OpenParams{}, err
	}
	if err := raw.SetWriteDeadline(time.Time{}); err != nil {
		return protocol.OpenParams{}, err
	}
	return f.Open, nil
}

func readFrame(raw core.Conn) (protocol.Frame, error) {
	_, data, err := raw.ReadMessage()
	if err != nil {
		return protocol.Frame{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	return protocol.Decode(string(data)), nil
}

// readLoop processes frames strictly in arrival order until the socket fails.
func (s *Session) readLoop(c *wsConn) {
	for {
		_, data, err := c.raw.ReadMessage()
		if err != nil {
			s.onTransportClosed(c, err)
			return
		}
		s.handleFrame(c, protocol.Decode(string(data)))
	}
}

func (s *Session) handleFrame(c *wsConn, f protocol.Frame) {
	switch f.Kind {
	case protocol.KindPing:
		if err := c.TrySend(protocol.Pong()); err != nil {
			log.Warn().Err(err).Str("module", "session").Msg("pong failed")
		}
	case protocol.KindPong:
		log.Trace().Str("module", "session").Msg("pong")
	case protocol.KindEvent:
		s.dispatch(f)
	case protocol.KindOpen, protocol.KindNamespaceAck:
		log.Debug().Str("module", "session").Str("kind", f.Kind.String()).Msg("handshake frame after connect, ignored")
	case protocol.KindUnknown:
		// Decode already logged it.
	}
}

// pingLoop is only used when the server expects client-originated pings.
// There is no pong timeout; a dead socket surfaces through the read loop.
func (s *Session) pingLoop(c *wsConn) {
	interval := c.open.Interval()
	if interval <= 0 {
		interval = defaultPingInterval
	}
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			if err := c.TrySend(protocol.Ping()); err != nil {
				log.Warn().Err(err).Str("module", "session").Msg("ping failed")
				if errors.Is(err, ErrConnClosed) {
					return
				}
			}
		}
	}
}

func (s *Session) onTransportClosed(c *wsConn, cause error) {
	s.mu.Lock()
	if s.conn != c {
		s.mu.Unlock()
		c.Close()
		return
	}
	old, wasAdmin := s.dropConnLocked()
	s.mu.Unlock()

	log.Warn().Err(cause).Str("module", "session").Msg("connection lost")
	s.afterDrop(old, wasAdmin)
	s.scheduleReconnect()
}

// dropConnLocked detaches the current socket and clears per-socket identity.
func (s *Session) dropConnLocked() (*wsConn, bool) {
	old := s.conn
	wasAdmin := s.admin
	s.conn = nil
	s.state = domain.StateDisconnected
	s.admin = false
	s.selfID = ""
	return old, wasAdmin
}

func (s *Session) afterDrop(old *wsConn, wasAdmin bool) {
	if old != nil {
		old.Close()
	}
	s.room.ClearBans()
	s.pair.Reset()
	if wasAdmin {
		s.listener.OnAdminStatusChanged(false)
	}
}

func (s *Session) failAttempt() {
	s.mu.Lock()
	if s.reconnecting {
		s.state = domain.StateReconnecting
	} else {
		s.state = domain.StateDisconnected
	}
	s.mu.Unlock()
}

// scheduleReconnect starts the backoff loop unless one is already running.
func (s *Session) scheduleReconnect() {
	s.mu.Lock()
	if s.reconnecting || !s.autoReconnect || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.reconnecting = true
	s.state = domain.StateReconnecting
	ctx, cancel := context.WithCancelCause(s.ctx)
	s.reconnectCancel = cancel
	s.mu.Unlock()

	s.wg.Go(func() { s.reconnectLoop(ctx) })
}

func (s *Session) reconnectLoop(ctx context.Context) {
	policy := s.opts.Reconnect
	for {
		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		if s.attempts >= policy.MaxAttempts {
			s.exhausted = true
			s.stopReconnectLocked(errReconnectDone)
			s.state = domain.StateDisconnected
			attempts := s.attempts
			s.mu.Unlock()

			err := fmt.Errorf("%w after %d attempts", domain.ErrReconnectExhausted, attempts)
			log.Error().Err(err).Str("module", "session").Msg("giving up, manual reconnect required")
			s.listener.OnReconnectExhausted(err)
			return
		}
		s.attempts++
		attempt := s.attempts
		s.state = domain.StateReconnecting
		s.mu.Unlock()

		delay := Backoff(attempt, policy.BaseDelay, policy.MaxDelay)
		log.Info().Str("module", "session").Int("attempt", attempt).Dur("delay", delay).Msg("reconnect scheduled")
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(delay):
		}

		if err := s.connect(ctx); err != nil {
			log.Warn().Err(err).Str("module", "session").Int("attempt", attempt).Msg("reconnect attempt failed")
			continue
		}
		log.Info().Str("module", "session").Int("attempt", attempt).Msg("reconnected")
		s.listener.OnReconnected()
		return
	}
}

// stopReconnectLocked ends any running reconnect loop. Callers hold s.mu.
func (s *Session) stopReconnectLocked(cause error) {
	if s.reconnectCancel != nil {
		s.reconnectCancel(cause)
		s.reconnectCancel = nil
	}
	s.reconnecting = false
}
