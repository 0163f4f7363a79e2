package domain

type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateAwaitingOpen
	StateAwaitingAck
	StateConnected
	StateReconnecting
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingOpen:
		return "awaiting_open"
	case StateAwaitingAck:
		return "awaiting_ack"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

func (s ConnState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
