// Package pairing tracks the bridge's "stand next to" pairing with another
// courtroom user.
package pairing

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CourtBridge/internal/domain"
)

// Negotiator holds the pair state. Solo -> Pending -> Paired -> Solo, with
// inbound offers going straight from Solo to Paired.
type Negotiator struct {
	mu    sync.Mutex
	state domain.PairState
}

func NewNegotiator() *Negotiator {
	return &Negotiator{state: domain.Solo()}
}

func (n *Negotiator) State() domain.PairState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Request starts an outbound pairing with target.
func (n *Negotiator) Request(target domain.UserID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Status != domain.PairSolo {
		return fmt.Errorf("%w: pairing already %s", domain.ErrInvalidState, n.state.Status)
	}
	n.state = domain.Pending(target)
	log.Info().Str("module", "pairing").Str("partner", string(target)).Msg("pair requested")
	return nil
}

// Withdraw drops a pending request to target, e.g. when it could not be sent.
func (n *Negotiator) Withdraw(target domain.UserID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Status == domain.PairPending && n.state.Partner == target {
		n.state = domain.Solo()
	}
}

// Offer handles an inbound offer from requester. It is accepted only when
// Solo; the caller answers the courtroom when this returns true.
func (n *Negotiator) Offer(requester domain.UserID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Status != domain.PairSolo {
		log.Debug().Str("module", "pairing").Str("from", string(requester)).Str("state", n.state.Status.String()).Msg("offer ignored")
		return false
	}
	n.state = domain.Paired(requester)
	log.Info().Str("module", "pairing").Str("partner", string(requester)).Msg("offer accepted")
	return true
}

// Resolve applies the partner's answer to our pending request.
func (n *Negotiator) Resolve(partner domain.UserID, accepted bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Status != domain.PairPending || n.state.Partner != partner {
		return false
	}
	if accepted {
		n.state = domain.Paired(partner)
	} else {
		n.state = domain.Solo()
	}
	log.Info().Str("module", "pairing").Str("partner", string(partner)).Bool("accepted", accepted).Msg("pair resolved")
	return true
}

// Leave ends a pending or active pairing.
func (n *Negotiator) Leave() (domain.PairState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	prev := n.state
	if prev.Status == domain.PairSolo {
		return prev, fmt.Errorf("%w: not paired", domain.ErrInvalidState)
	}
	n.state = domain.Solo()
	return prev, nil
}

// PartnerLeft reverts to Solo if id was the partner. Only the first call for
// a given departure returns true.
func (n *Negotiator) PartnerLeft(id domain.UserID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Status == domain.PairSolo || n.state.Partner != id {
		return false
	}
	log.Info().Str("module", "pairing").Str("partner", string(id)).Str("was", n.state.Status.String()).Msg("partner left, back to solo")
	n.state = domain.Solo()
	return true
}

func (n *Negotiator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = domain.Solo()
}
