// Package protocol implements the courtroom's Engine.IO/Socket.IO style text
// framing: a leading packet code followed by an optional JSON body.
package protocol

import (
	"time"

	"github.com/goccy/go-json"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindOpen
	KindPing
	KindPong
	KindNamespaceAck
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	case KindNamespaceAck:
		return "namespace_ack"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Packet codes on the wire.
const (
	codeOpen         = "0"
	codePing         = "2"
	codePong         = "3"
	codeNamespaceAck = "40"
	codeEvent        = "42"
)

// OpenParams is the handshake body of an open frame. Intervals are in
// milliseconds on the wire.
type OpenParams struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
}

func (p OpenParams) Interval() time.Duration { return time.Duration(p.PingInterval) * time.Millisecond }
func (p OpenParams) Timeout() time.Duration  { return time.Duration(p.PingTimeout) * time.Millisecond }

// Frame is one decoded wire message. Only the fields relevant to Kind are set.
type Frame struct {
	Kind Kind
	Open OpenParams
	Name string
	Args []json.RawMessage
	Raw  string
	Err  error
}

func Ping() Frame         { return Frame{Kind: KindPing} }
func Pong() Frame         { return Frame{Kind: KindPong} }
func NamespaceAck() Frame { return Frame{Kind: KindNamespaceAck} }

// Event builds an event frame, marshalling each argument.
func Event(name string, args ...any) (Frame, error) {
	raw := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return Frame{}, err
		}
		raw = append(raw, b)
	}
	return Frame{Kind: KindEvent, Name: name, Args: raw}, nil
}

// Arg unmarshals argument i into v.
func (f Frame) Arg(i int, v any) error {
	if i >= len(f.Args) {
		return errMissingArg(f.Name, i)
	}
	return json.Unmarshal(f.Args[i], v)
}
