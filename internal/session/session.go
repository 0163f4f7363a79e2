// Package session owns the single courtroom connection: handshake,
// keepalive, reconnection, inbound dispatch and every outbound action.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/pairing"
	"github.com/dkeye/CourtBridge/internal/room"
)

type Options struct {
	Dialer   core.Dialer
	Listener core.Listener
	Clock    clock.Clock
	Identity domain.Identity

	Reconnect        ReconnectPolicy
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	SendBuffer       int
	SelfPing         bool
	RejoinWindow     time.Duration
	ShutdownGrace    time.Duration
}

// OptionsFromConfig maps the loaded config onto session options.
func OptionsFromConfig(cfg *config.Config, dialer core.Dialer, listener core.Listener) Options {
	return Options{
		Dialer:   dialer,
		Listener: listener,
		Clock:    clock.Real(),
		Identity: domain.Identity{
			BaseName:      cfg.Identity.BaseName,
			SpeakerSuffix: cfg.Identity.SpeakerSuffix,
			CharacterID:   cfg.Identity.CharacterID,
			PoseID:        cfg.Identity.PoseID,
		},
		Reconnect: ReconnectPolicy{
			Enabled:     cfg.Reconnect.Enabled,
			BaseDelay:   cfg.Reconnect.BaseDelay,
			MaxDelay:    cfg.Reconnect.MaxDelay,
			MaxAttempts: cfg.Reconnect.MaxAttempts,
		},
		HandshakeTimeout: cfg.Court.HandshakeTimeout,
		WriteTimeout:     cfg.Court.WriteTimeout,
		SendBuffer:       cfg.Court.SendBuffer,
		SelfPing:         cfg.Court.SelfPing,
		RejoinWindow:     cfg.Room.RejoinWindow,
		ShutdownGrace:    cfg.Shutdown.Grace,
	}
}

// Session is the one bridge instance. It is created once, reset in place on
// reconnect and torn down with Shutdown.
type Session struct {
	opts     Options
	listener core.Listener
	clock    clock.Clock

	room *room.State
	pair *pairing.Negotiator

	// dialMu serialises connection attempts.
	dialMu sync.Mutex

	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	state           domain.ConnState
	conn            *wsConn
	selfID          domain.UserID
	admin           bool
	attempts        int
	exhausted       bool
	reconnecting    bool
	autoReconnect   bool
	reconnectCancel context.CancelCauseFunc

	wg conc.WaitGroup
}

func New(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Listener == nil {
		opts.Listener = core.NopListener{}
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Reconnect.MaxAttempts <= 0 {
		opts.Reconnect.MaxAttempts = 10
	}
	if opts.Identity.BaseName == "" {
		opts.Identity.BaseName = "Bridge"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:          opts,
		listener:      opts.Listener,
		clock:         opts.Clock,
		room:          room.NewState(opts.Clock, opts.RejoinWindow),
		pair:          pairing.NewNegotiator(),
		ctx:           ctx,
		cancel:        cancel,
		autoReconnect: opts.Reconnect.Enabled,
	}
}

// Read-only queries.

func (s *Session) State() domain.ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) SelfID() domain.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selfID
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// Attempts is the number of consecutive failed reconnect attempts.
func (s *Session) Attempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts
}

// Exhausted reports whether automatic reconnection gave up. Only a manual
// Reconnect clears it.
func (s *Session) Exhausted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exhausted
}

func (s *Session) Users() []domain.RoomUser           { return s.room.Users() }
func (s *Session) Moderators() []domain.UserID        { return s.room.Moderators() }
func (s *Session) Bans() []domain.BanRecord           { return s.room.Bans() }
func (s *Session) Room() domain.RoomView              { return s.room.View() }
func (s *Session) PairState() domain.PairState        { return s.pair.State() }
func (s *Session) RecentlyLeft(id domain.UserID) bool { return s.room.RecentlyLeft(id) }

func (s *Session) setState(st domain.ConnState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
