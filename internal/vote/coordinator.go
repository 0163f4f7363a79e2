// Package vote gates administrative actions behind a confirmation vote.
package vote

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/config"
	"github.com/dkeye/CourtBridge/internal/core"
	"github.com/dkeye/CourtBridge/internal/domain"
)

// finished proposals stay queryable this long.
const retention = time.Hour

type Options struct {
	RequiredApprovals int
	Timeout           time.Duration
	Marker            string
	// SelfID is the messaging-side id of the bridge; its reactions never count.
	SelfID           domain.UserID
	ProposalLimit    int
	ProposalInterval time.Duration
}

func OptionsFromConfig(cfg config.VoteConfig) Options {
	return Options{
		RequiredApprovals: cfg.RequiredApprovals,
		Timeout:           cfg.Timeout,
		Marker:            cfg.Marker,
		SelfID:            domain.UserID(cfg.SelfID),
		ProposalLimit:     cfg.ProposalLimit,
		ProposalInterval:  cfg.ProposalInterval,
	}
}

type Coordinator struct {
	opts      Options
	clock     clock.Clock
	exec      core.ActionExecutor
	announcer core.Announcer
	limiter   *ProposalLimiter

	mu     sync.Mutex
	votes  map[domain.ProposalID]*vote
	closed bool
	stop   chan struct{}
	wg     conc.WaitGroup
}

// vote completes exactly once, either committed by approvals or expired by
// its deadline.
type vote struct {
	p         domain.Proposal
	approvers map[domain.UserID]struct{}
	done      chan struct{}
	err       error
	endedAt   time.Time
}

func NewCoordinator(opts Options, c clock.Clock, exec core.ActionExecutor, announcer core.Announcer) *Coordinator {
	if opts.RequiredApprovals <= 0 {
		opts.RequiredApprovals = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if c == nil {
		c = clock.Real()
	}
	return &Coordinator{
		opts:      opts,
		clock:     c,
		exec:      exec,
		announcer: announcer,
		limiter:   NewProposalLimiter(c, opts.ProposalLimit, opts.ProposalInterval),
		votes:     make(map[domain.ProposalID]*vote),
		stop:      make(chan struct{}),
	}
}

// Propose opens a vote on action. Zero required or timeout use the
// configured defaults.
func (c *Coordinator) Propose(proposer domain.UserID, action domain.AdminAction, required int, timeout time.Duration) (domain.Proposal, error) {
	if err := action.Validate(); err != nil {
		return domain.Proposal{}, err
	}
	if required <= 0 {
		required = c.opts.RequiredApprovals
	}
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	if !c.limiter.Allow(proposer) {
		return domain.Proposal{}, fmt.Errorf("%w: too many proposals from %s", domain.ErrRateLimited, proposer)
	}

	now := c.clock.Now()
	v := &vote{
		p: domain.Proposal{
			ID:        domain.ProposalID(uuid.NewString()),
			Proposer:  proposer,
			Action:    action,
			Required:  required,
			Approvals: []domain.UserID{},
			Tally:     1,
			Status:    domain.VoteCollecting,
			CreatedAt: now,
			Deadline:  now.Add(timeout),
		},
		approvers: make(map[domain.UserID]struct{}),
		done:      make(chan struct{}),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.Proposal{}, fmt.Errorf("%w: coordinator closed", domain.ErrInvalidState)
	}
	c.pruneLocked(now)
	c.votes[v.p.ID] = v
	snap := v.snapshotLocked()
	c.mu.Unlock()

	log.Info().Str("module", "vote").Str("proposal_id", string(snap.ID)).Str("proposer", string(proposer)).
		Str("action", action.String()).Int("required", required).Dur("timeout", timeout).Msg("proposal opened")
	c.announcer.ProposalOpened(snap)

	deadline := c.clock.After(timeout)
	c.wg.Go(func() {
		select {
		case <-deadline:
			c.expire(snap.ID, fmt.Errorf("%w: %d of %d approvals", domain.ErrVoteExpired, len(c.approvals(snap.ID)), required))
		case <-v.done:
		case <-c.stop:
		}
	})
	return snap, nil
}

// Approve records a reaction. Reactions with another marker, from the
// proposer or from the bridge itself are ignored. The approval that reaches
// the threshold runs the action.
func (c *Coordinator) Approve(r domain.Reaction) (domain.Proposal, error) {
	c.mu.Lock()
	v, ok := c.votes[r.ProposalID]
	if !ok {
		c.mu.Unlock()
		return domain.Proposal{}, fmt.Errorf("%w: %s", domain.ErrUnknownProposal, r.ProposalID)
	}
	switch v.p.Status {
	case domain.VoteExpired:
		snap := v.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: %s", domain.ErrVoteExpired, r.ProposalID)
	case domain.VoteCommitted:
		snap := v.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	if !c.clock.Now().Before(v.p.Deadline) {
		reason := fmt.Errorf("%w: %d of %d approvals", domain.ErrVoteExpired, len(v.approvers), v.p.Required)
		snap := c.expireLocked(v, reason)
		c.mu.Unlock()
		c.announceExpired(snap, reason)
		return snap, fmt.Errorf("%w: %s", domain.ErrVoteExpired, r.ProposalID)
	}
	if r.Marker != c.opts.Marker || r.UserID == "" || r.UserID == v.p.Proposer || r.UserID == c.opts.SelfID {
		snap := v.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}

	v.approvers[r.UserID] = struct{}{}
	if len(v.approvers) < v.p.Required {
		snap := v.snapshotLocked()
		c.mu.Unlock()
		log.Debug().Str("module", "vote").Str("proposal_id", string(snap.ID)).Int("approvals", len(snap.Approvals)).Msg("approval counted")
		return snap, nil
	}

	v.p.Status = domain.VoteCommitted
	v.endedAt = c.clock.Now()
	action := v.p.Action
	c.mu.Unlock()

	// The terminal transition is done; the action runs outside the lock.
	err := c.exec.ExecuteAdminAction(action)

	c.mu.Lock()
	v.err = err
	if err != nil {
		v.p.Result = err.Error()
	} else {
		v.p.Result = "ok"
	}
	snap := v.snapshotLocked()
	close(v.done)
	c.mu.Unlock()

	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("module", "vote").Str("proposal_id", string(snap.ID)).Str("action", action.String()).Msg("proposal committed")
	c.announcer.ProposalCommitted(snap, err)
	return snap, nil
}

// Cancel expires a collecting proposal without running it.
func (c *Coordinator) Cancel(id domain.ProposalID) error {
	c.mu.Lock()
	v, ok := c.votes[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownProposal, id)
	}
	status := v.p.Status
	c.mu.Unlock()
	if status != domain.VoteCollecting {
		return fmt.Errorf("%w: proposal already %s", domain.ErrInvalidState, status)
	}
	c.expire(id, fmt.Errorf("%w: cancelled", domain.ErrVoteExpired))
	return nil
}

func (c *Coordinator) Get(id domain.ProposalID) (domain.Proposal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.votes[id]
	if !ok {
		return domain.Proposal{}, false
	}
	return v.snapshotLocked(), true
}

// Pending lists collecting proposals, oldest first.
func (c *Coordinator) Pending() []domain.Proposal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Proposal, 0, len(c.votes))
	for _, v := range c.votes {
		if v.p.Status == domain.VoteCollecting {
			out = append(out, v.snapshotLocked())
		}
	}
	slices.SortFunc(out, func(a, b domain.Proposal) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// Wait blocks until the proposal is terminal or ctx ends. The error is the
// gateway result for committed proposals and the expiry reason otherwise.
func (c *Coordinator) Wait(ctx context.Context, id domain.ProposalID) (domain.Proposal, error) {
	c.mu.Lock()
	v, ok := c.votes[id]
	c.mu.Unlock()
	if !ok {
		return domain.Proposal{}, fmt.Errorf("%w: %s", domain.ErrUnknownProposal, id)
	}
	select {
	case <-v.done:
	case <-ctx.Done():
		return domain.Proposal{}, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return v.snapshotLocked(), v.err
}

// Close expires every collecting proposal and stops the deadline watchers.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	ids := make([]domain.ProposalID, 0, len(c.votes))
	for id, v := range c.votes {
		if v.p.Status == domain.VoteCollecting {
			ids = append(ids, id)
		}
	}
	close(c.stop)
	c.mu.Unlock()

	for _, id := range ids {
		c.expire(id, fmt.Errorf("%w: shutting down", domain.ErrVoteExpired))
	}
	c.wg.Wait()
}

func (c *Coordinator) expire(id domain.ProposalID, reason error) {
	c.mu.Lock()
	v, ok := c.votes[id]
	if !ok || v.p.Status != domain.VoteCollecting {
		c.mu.Unlock()
		return
	}
	snap := c.expireLocked(v, reason)
	c.mu.Unlock()
	c.announceExpired(snap, reason)
}

// expireLocked is the Collecting -> Expired transition. Callers announce the
// returned snapshot after unlocking.
func (c *Coordinator) expireLocked(v *vote, reason error) domain.Proposal {
	v.p.Status = domain.VoteExpired
	v.p.Result = reason.Error()
	v.err = reason
	v.endedAt = c.clock.Now()
	close(v.done)
	return v.snapshotLocked()
}

func (c *Coordinator) announceExpired(snap domain.Proposal, reason error) {
	log.Info().Str("module", "vote").Str("proposal_id", string(snap.ID)).Str("reason", reason.Error()).Msg("proposal expired")
	c.announcer.ProposalExpired(snap, reason)
}

func (c *Coordinator) approvals(id domain.ProposalID) []domain.UserID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.votes[id]; ok {
		return v.snapshotLocked().Approvals
	}
	return nil
}

func (c *Coordinator) pruneLocked(now time.Time) {
	for id, v := range c.votes {
		if v.p.Status != domain.VoteCollecting && now.Sub(v.endedAt) > retention {
			delete(c.votes, id)
		}
	}
}

func (v *vote) snapshotLocked() domain.Proposal {
	p := v.p
	p.Approvals = make([]domain.UserID, 0, len(v.approvers))
	for id := range v.approvers {
		p.Approvals = append(p.Approvals, id)
	}
	slices.Sort(p.Approvals)
	p.Tally = len(p.Approvals) + 1
	return p
}
