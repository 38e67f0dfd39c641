package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/adapter/payment"
	"github.com/poruchai/poruchai/internal/config"
	"github.com/poruchai/poruchai/internal/domain/repository"
	pkgAuth "github.com/poruchai/poruchai/internal/pkg/auth"
	"github.com/poruchai/poruchai/internal/pkg/clock"
	"github.com/poruchai/poruchai/internal/pkg/ratelimit"
	"github.com/poruchai/poruchai/internal/storage/rediscache"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(func() Authorizer { return NewRoleAuthorizer() }),
	fx.Provide(newAuthUseCase),
	fx.Provide(newOrderUseCase),
	fx.Provide(newPaymentUseCase),
	fx.Provide(newProfileUseCase),
)

type authParams struct {
	fx.In

	Users    repository.UserRepository
	Hasher   pkgAuth.PasswordHasher
	Strategy pkgAuth.Strategy
	Config   *config.Config
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Users, p.Hasher, p.Strategy, p.Config.AdminEmail)
}

type orderParams struct {
	fx.In

	Orders   repository.OrderRepository
	Events   repository.EventRepository
	Users    repository.UserRepository
	Cache    rediscache.OrderCache
	Limiter  *ratelimit.Limiter
	Authz    Authorizer
	Notifier Notifier
	Clock    clock.Clock
	Config   *config.Config
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Events, p.Users, p.Cache, p.Limiter, p.Authz, p.Notifier, p.Clock, p.Config.AdminEmail, p.Logger)
}

type paymentParams struct {
	fx.In

	Orders   repository.OrderRepository
	Events   repository.EventRepository
	Users    repository.UserRepository
	Gateway  payment.Client
	Cache    rediscache.OrderCache
	Notifier Notifier
	Config   *config.Config
	Logger   *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Events, p.Users, p.Gateway, p.Cache, p.Notifier, p.Config.PaymentFallbackAmount, p.Logger)
}

type profileParams struct {
	fx.In

	Users    repository.UserRepository
	Tokens   repository.EmailTokenRepository
	Notifier Notifier
	Clock    clock.Clock
	Config   *config.Config
	Logger   *slog.Logger
}

func newProfileUseCase(p profileParams) *ProfileUseCase {
	return NewProfileUseCase(p.Users, p.Tokens, p.Notifier, p.Clock, p.Config.BaseURL, p.Logger)
}
