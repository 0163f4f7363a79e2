package session

import "time"

// ReconnectPolicy controls automatic recovery after the socket drops.
type ReconnectPolicy struct {
	Enabled     bool
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// Backoff returns the wait before the given 1-based attempt:
// min(base * 2^(attempt-1), ceiling).
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d <= 0 || d >= ceiling {
			return ceiling
		}
	}
	if d > ceiling {
		return ceiling
	}
	return d
}
