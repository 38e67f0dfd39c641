package ratelimit

import (
	"context"
	"time"

	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/pkg/clock"
)

// Limiter bounds the frequency of a named action per user. The backing
// repository is the single source of truth; correctness under concurrent
// requests is best effort, limited by the backend's write atomicity.
type Limiter struct {
	records repository.RateLimitRepository
	clock   clock.Clock
	max     int
	window  time.Duration
}

// New constructs a Limiter allowing at most max attempts per trailing window.
func New(records repository.RateLimitRepository, clk clock.Clock, max int, window time.Duration) *Limiter {
	return &Limiter{records: records, clock: clk, max: max, window: window}
}

// Allow counts prior attempts for (action, user) within the trailing
// window. At or over the maximum it denies without recording; otherwise it
// records the attempt and allows.
func (l *Limiter) Allow(ctx context.Context, action string, userID int64) (bool, error) {
	since := l.clock.Now().Add(-l.window)
	count, err := l.records.CountSince(ctx, action, userID, since)
	if err != nil {
		return false, err
	}
	if count >= l.max {
		return false, nil
	}
	if err := l.records.Record(ctx, action, userID); err != nil {
		return false, err
	}
	return true, nil
}
