package domain

import "errors"

// Precondition failures are returned synchronously and have no side effect.
var (
	ErrNotConnected    = errors.New("not connected")
	ErrNotAdmin        = errors.New("not room admin")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrTransport          = errors.New("transport error")
	ErrProtocol           = errors.New("protocol error")
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")
	ErrVoteExpired        = errors.New("vote expired")
	ErrUnknownProposal    = errors.New("unknown proposal")
	ErrRateLimited        = errors.New("rate limited")
)

// IsPrecondition reports whether err is a caller-side precondition failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrNotAdmin) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidArgument)
}
