package rediscache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/config"
)

// Module wires the redis order cache.
var Module = fx.Options(
	fx.Provide(newCache),
	fx.Provide(func(c *Cache) OrderCache { return c }),
	fx.Invoke(registerLifecycle),
)

type cacheParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newCache(p cacheParams) *Cache {
	return New(p.Config.RedisAddr, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, cache *Cache) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
}
