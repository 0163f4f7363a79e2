package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/CourtBridge/internal/adapters/court"
	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
	"github.com/dkeye/CourtBridge/internal/protocol"
)

const openFrame = `0{"sid":"fake","upgrades":[],"pingInterval":25000,"pingTimeout":20000}`

// fakeCourt is an in-process courtroom speaking the Engine.IO handshake.
type fakeCourt struct {
	srv      *httptest.Server
	conns    chan *courtConn
	dials    atomic.Int32
	refuse   atomic.Bool
	skipOpen atomic.Bool
}

type courtConn struct {
	ws     *websocket.Conn
	frames chan string
	wmu    sync.Mutex
}

func newFakeCourt(t *testing.T) *fakeCourt {
	t.Helper()
	fc := &fakeCourt{conns: make(chan *courtConn, 8)}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	fc.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fc.dials.Add(1)
		if fc.refuse.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cc := &courtConn{ws: ws, frames: make(chan string, 64)}
		if fc.skipOpen.Load() {
			cc.write("40")
			_ = ws.Close()
			return
		}
		cc.write(openFrame)
		if _, data, err := ws.ReadMessage(); err != nil || string(data) != "40" {
			_ = ws.Close()
			return
		}
		cc.write(`40{"sid":"ns"}`)
		go cc.readLoop()
		fc.conns <- cc
	}))
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeCourt) dialer(t *testing.T) core.Dialer {
	t.Helper()
	d, err := court.NewDialer(config.CourtConfig{
		URL:              fc.srv.URL + "/socket.io/",
		RoomID:           "room",
		HandshakeTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return d
}

// accept returns the next connection that finished the handshake.
func (fc *fakeCourt) accept(t *testing.T) *courtConn {
	t.Helper()
	select {
	case cc := <-fc.conns:
		return cc
	case <-time.After(2 * time.Second):
		t.Fatal("no connection reached the court")
		return nil
	}
}

func (cc *courtConn) readLoop() {
	defer close(cc.frames)
	for {
		_, data, err := cc.ws.ReadMessage()
		if err != nil {
			return
		}
		cc.frames <- string(data)
	}
}

func (cc *courtConn) write(raw string) {
	cc.wmu.Lock()
	defer cc.wmu.Unlock()
	_ = cc.ws.WriteMessage(websocket.TextMessage, []byte(raw))
}

func (cc *courtConn) emit(t *testing.T, name string, args ...any) {
	t.Helper()
	f, err := protocol.Event(name, args...)
	require.NoError(t, err)
	raw, err := protocol.Encode(f)
	require.NoError(t, err)
	cc.write(raw)
}

func (cc *courtConn) next(t *testing.T) string {
	t.Helper()
	select {
	case raw, ok := <-cc.frames:
		require.True(t, ok, "bridge closed the socket")
		return raw
	case <-time.After(2 * time.Second):
		t.Fatal("no frame from the bridge")
		return ""
	}
}

// nextEvent returns the next event frame, skipping keepalive traffic.
func (cc *courtConn) nextEvent(t *testing.T) protocol.Frame {
	t.Helper()
	for {
		f := protocol.Decode(cc.next(t))
		if f.Kind == protocol.KindEvent {
			return f
		}
	}
}

// bootstrap consumes me/get_room and introduces the bridge as self.
func (cc *courtConn) bootstrap(t *testing.T, s *Session, self domain.UserID, others ...domain.RoomUser) {
	t.Helper()
	require.Equal(t, protocol.EvMe, cc.nextEvent(t).Name)
	require.Equal(t, protocol.EvGetRoom, cc.nextEvent(t).Name)

	me := domain.RoomUser{ID: self, Username: "Bridge"}
	cc.emit(t, protocol.EvMe, protocol.MePayload{User: me})
	cc.emit(t, protocol.EvUpdateRoom, protocol.RoomPayload{Users: append([]domain.RoomUser{me}, others...)})
	require.Eventually(t, func() bool {
		return s.SelfID() == self && s.room.Len() == len(others)+1
	}, 2*time.Second, 5*time.Millisecond)
}

func argJSON(t *testing.T, f protocol.Frame, i int) string {
	t.Helper()
	require.Greater(t, len(f.Args), i)
	var v any
	require.NoError(t, json.Unmarshal(f.Args[i], &v))
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// recorder is a Listener for the asynchronous lifecycle tests.
type recorder struct {
	core.NopListener

	mu          sync.Mutex
	reconnected int
	exhausted   []error
	admin       []bool
}

func (r *recorder) OnReconnected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconnected++
}

func (r *recorder) OnReconnectExhausted(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exhausted = append(r.exhausted, err)
}

func (r *recorder) OnAdminStatusChanged(admin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admin = append(r.admin, admin)
}

func (r *recorder) counts() (reconnected, exhausted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reconnected, len(r.exhausted)
}

func testOptions(d core.Dialer, l core.Listener, c clock.Clock) Options {
	return Options{
		Dialer:           d,
		Listener:         l,
		Clock:            c,
		Identity:         domain.Identity{BaseName: "Bridge", SpeakerSuffix: " (d)", CharacterID: 7, PoseID: 9},
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     time.Second,
		SendBuffer:       16,
		RejoinWindow:     time.Minute,
	}
}

func shutdown(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}

// trackingDialer remembers every dial context and wraps each socket so tests
// can see when the session closed it.
type trackingDialer struct {
	core.Dialer

	mu    sync.Mutex
	ctxs  []context.Context
	conns []*trackedConn
}

type trackedConn struct {
	core.Conn
	closed atomic.Bool
}

func (c *trackedConn) Close() error {
	c.closed.Store(true)
	return c.Conn.Close()
}

func (d *trackingDialer) Dial(ctx context.Context) (core.Conn, error) {
	d.mu.Lock()
	d.ctxs = append(d.ctxs, ctx)
	d.mu.Unlock()
	raw, err := d.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	tc := &trackedConn{Conn: raw}
	d.mu.Lock()
	d.conns = append(d.conns, tc)
	d.mu.Unlock()
	return tc, nil
}

func (d *trackingDialer) contexts() []context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]context.Context(nil), d.ctxs...)
}

func (d *trackingDialer) conn(i int) *trackedConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}
