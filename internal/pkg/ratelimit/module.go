package ratelimit

import (
	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/config"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/pkg/clock"
)

// Module provides the persistence-backed rate limiter.
var Module = fx.Provide(newLimiter)

type limiterParams struct {
	fx.In

	Records repository.RateLimitRepository
	Clock   clock.Clock
	Config  *config.Config
}

func newLimiter(p limiterParams) *Limiter {
	return New(p.Records, p.Clock, p.Config.RateLimitMax, p.Config.RateLimitWindow)
}
