// Package court connects to the courtroom service over gorilla/websocket.
package court

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
)

// Dialer opens Engine.IO websocket transports to one courtroom.
type Dialer struct {
	endpoint  string
	origin    string
	readLimit int64
	ws        *websocket.Dialer
}

func NewDialer(cfg config.CourtConfig) (*Dialer, error) {
	endpoint, err := Endpoint(cfg.URL, cfg.RoomID)
	if err != nil {
		return nil, err
	}
	return &Dialer{
		endpoint:  endpoint,
		origin:    cfg.Origin,
		readLimit: cfg.ReadLimit,
		ws: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}, nil
}

// Endpoint adds the Engine.IO transport query and the room id to base.
func Endpoint(base, roomID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("court url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("court url: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	if q.Get("EIO") == "" {
		q.Set("EIO", "4")
	}
	q.Set("transport", "websocket")
	if roomID != "" {
		q.Set("roomId", roomID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *Dialer) Dial(ctx context.Context) (core.Conn, error) {
	header := http.Header{}
	if d.origin != "" {
		header.Set("Origin", d.origin)
	}
	start := time.Now()
	conn, resp, err := d.ws.DialContext(ctx, d.endpoint, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		log.Warn().Err(err).Str("module", "adapters.court").Int("status", status).Msg("dial failed")
		return nil, fmt.Errorf("%w: dial %s: %w", domain.ErrTransport, d.endpoint, err)
	}
	if d.readLimit > 0 {
		conn.SetReadLimit(d.readLimit)
	}
	log.Info().Str("module", "adapters.court").Dur("took", time.Since(start)).Msg("socket open")
	return conn, nil
}
