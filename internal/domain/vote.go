package domain

import "time"

type ProposalID string

type VoteStatus int

const (
	VoteCollecting VoteStatus = iota
	VoteCommitted
	VoteExpired
)

func (s VoteStatus) String() string {
	switch s {
	case VoteCollecting:
		return "collecting"
	case VoteCommitted:
		return "committed"
	case VoteExpired:
		return "expired"
	}
	return "unknown"
}

func (s VoteStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Proposal is a snapshot of one confirmation vote. Tally includes the
// proposer's implicit approval; Approvals does not.
type Proposal struct {
	ID        ProposalID  `json:"id"`
	Proposer  UserID      `json:"proposer"`
	Action    AdminAction `json:"action"`
	Required  int         `json:"required"`
	Approvals []UserID    `json:"approvals"`
	Tally     int         `json:"tally"`
	Status    VoteStatus  `json:"status"`
	Result    string      `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Deadline  time.Time   `json:"deadline"`
}

// Reaction is one approval signal from the messaging platform.
type Reaction struct {
	ProposalID ProposalID `json:"-"`
	UserID     UserID     `json:"user_id" binding:"required"`
	Marker     string     `json:"marker" binding:"required"`
}
