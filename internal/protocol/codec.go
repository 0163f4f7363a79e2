package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/domain"
)

var ErrNotEncodable = errors.New("frame kind is not encodable")

func errMissingArg(name string, i int) error {
	return fmt.Errorf("%w: event %q has no argument %d", domain.ErrProtocol, name, i)
}

// Decode classifies a raw text frame. It never fails: anything it cannot
// make sense of comes back as KindUnknown with Err set.
func Decode(raw string) Frame {
	f := decode(raw)
	f.Raw = raw
	if f.Kind == KindUnknown {
		log.Warn().Err(f.Err).Str("module", "protocol").Str("frame", truncate(raw, 120)).Msg("undecodable frame")
	}
	return f
}

func decode(raw string) Frame {
	switch {
	case raw == "":
		return unknown(errors.New("empty frame"))
	case strings.HasPrefix(raw, codeEvent):
		return decodeEvent(raw[len(codeEvent):])
	case strings.HasPrefix(raw, codeNamespaceAck):
		return Frame{Kind: KindNamespaceAck}
	case strings.HasPrefix(raw, codeOpen):
		var p OpenParams
		if err := json.Unmarshal([]byte(raw[len(codeOpen):]), &p); err != nil {
			return unknown(fmt.Errorf("open params: %w", err))
		}
		return Frame{Kind: KindOpen, Open: p}
	case strings.HasPrefix(raw, codePing):
		return Frame{Kind: KindPing}
	case strings.HasPrefix(raw, codePong):
		return Frame{Kind: KindPong}
	}
	return unknown(fmt.Errorf("unhandled packet code %q", raw[:1]))
}

func decodeEvent(body string) Frame {
	// An ack id may sit between the code and the array.
	body = strings.TrimLeft(body, "0123456789")
	arr, err := ExtractJSONArray(body)
	if err != nil {
		return unknown(err)
	}
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &parts); err != nil {
		return unknown(fmt.Errorf("event body: %w", err))
	}
	if len(parts) == 0 {
		return unknown(errors.New("event without name"))
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return unknown(fmt.Errorf("event name: %w", err))
	}
	return Frame{Kind: KindEvent, Name: name, Args: parts[1:]}
}

func unknown(err error) Frame {
	return Frame{Kind: KindUnknown, Err: fmt.Errorf("%w: %w", domain.ErrProtocol, err)}
}

// Encode renders f for the wire. Open frames are server-only and cannot be
// encoded.
func Encode(f Frame) (string, error) {
	switch f.Kind {
	case KindPing:
		return codePing, nil
	case KindPong:
		return codePong, nil
	case KindNamespaceAck:
		return codeNamespaceAck, nil
	case KindEvent:
		name, err := json.Marshal(f.Name)
		if err != nil {
			return "", err
		}
		parts := make([]json.RawMessage, 0, len(f.Args)+1)
		parts = append(parts, name)
		parts = append(parts, f.Args...)
		body, err := json.Marshal(parts)
		if err != nil {
			return "", err
		}
		return codeEvent + string(body), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotEncodable, f.Kind)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
