package vote

import (
	"sync"
	"time"

	"github.com/dkeye/CourtBridge/internal/clock"
	"github.com/dkeye/CourtBridge/internal/domain"
)

// ProposalLimiter caps proposals per proposer in a sliding window.
type ProposalLimiter struct {
	mu       sync.Mutex
	clock    clock.Clock
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
}

// NewProposalLimiter returns nil when limit is not positive; a nil limiter
// allows everything.
func NewProposalLimiter(c clock.Clock, limit int, interval time.Duration) *ProposalLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &ProposalLimiter{
		clock:    c,
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *ProposalLimiter) Allow(uid domain.UserID) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	windowStart := now.Add(-rl.interval)

	// 1. drop attempts outside the window
	attempts := rl.history[uid]
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	// 2. full window blocks
	if len(fresh) >= rl.limit {
		rl.history[uid] = fresh
		return false
	}

	// 3. record this one
	rl.history[uid] = append(fresh, now)
	return true
}
