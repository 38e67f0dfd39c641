package repository

import (
	"context"
	"time"
)

// RateLimitRepository counts and records gated action attempts.
type RateLimitRepository interface {
	CountSince(ctx context.Context, action string, userID int64, since time.Time) (int, error)
	Record(ctx context.Context, action string, userID int64) error
}
