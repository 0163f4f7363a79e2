package court

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/domain"
)

func TestEndpoint(t *testing.T) {
	t.Parallel()

	got, err := Endpoint("https://court.example/socket.io/", "room1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "wss://court.example/socket.io/?"))
	assert.Contains(t, got, "EIO=4")
	assert.Contains(t, got, "transport=websocket")
	assert.Contains(t, got, "roomId=room1")

	got, err = Endpoint("ws://localhost:1234/socket.io/?EIO=3", "")
	require.NoError(t, err)
	assert.Contains(t, got, "EIO=3")
	assert.NotContains(t, got, "roomId")

	_, err = Endpoint("ftp://court.example", "")
	assert.Error(t, err)
}

func TestDialSendsOriginAndRoom(t *testing.T) {
	t.Parallel()

	seen := make(chan *http.Request, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = c.WriteMessage(websocket.TextMessage, []byte(`0{"sid":"s"}`))
		_ = c.Close()
	}))
	t.Cleanup(srv.Close)

	d, err := NewDialer(config.CourtConfig{
		URL:              srv.URL + "/socket.io/",
		RoomID:           "abc",
		Origin:           "https://court.example",
		HandshakeTimeout: time.Second,
		ReadLimit:        1 << 16,
	})
	require.NoError(t, err)

	conn, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	r := <-seen
	assert.Equal(t, "https://court.example", r.Header.Get("Origin"))
	assert.Equal(t, "abc", r.URL.Query().Get("roomId"))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `0{"sid":"s"}`, string(data))
}

func TestDialFailureIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	d, err := NewDialer(config.CourtConfig{URL: srv.URL, HandshakeTimeout: time.Second})
	require.NoError(t, err)
	_, err = d.Dial(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}
