package di

import (
	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
	"github.com/poruchai/poruchai/internal/adapter/payment"
	"github.com/poruchai/poruchai/internal/app"
	"github.com/poruchai/poruchai/internal/config"
	"github.com/poruchai/poruchai/internal/logger"
	"github.com/poruchai/poruchai/internal/pkg/auth"
	"github.com/poruchai/poruchai/internal/pkg/clock"
	"github.com/poruchai/poruchai/internal/pkg/ratelimit"
	"github.com/poruchai/poruchai/internal/server/http/router"
	"github.com/poruchai/poruchai/internal/storage/postgres"
	"github.com/poruchai/poruchai/internal/storage/rediscache"
	"github.com/poruchai/poruchai/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		auth.Module,
		postgres.Module,
		rediscache.Module,
		ratelimit.Module,
		payment.Module,
		mailer.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
