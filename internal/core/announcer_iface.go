package core

import "github.com/dkeye/CourtBridge/internal/domain"

// Announcer shows vote progress to the messaging platform.
type Announcer interface {
	ProposalOpened(p domain.Proposal)
	// ProposalCommitted carries the gateway's result for the approved action.
	ProposalCommitted(p domain.Proposal, err error)
	ProposalExpired(p domain.Proposal, reason error)
}

// ActionExecutor performs an approved administrative action.
type ActionExecutor interface {
	ExecuteAdminAction(a domain.AdminAction) error
}
