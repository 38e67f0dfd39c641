package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/pkg/cities"
	"github.com/poruchai/poruchai/internal/pkg/clock"
	"github.com/poruchai/poruchai/internal/pkg/ratelimit"
	"github.com/poruchai/poruchai/internal/storage/rediscache"
)

// ActionCreateOrder names the rate-limited order creation action.
const ActionCreateOrder = "order_create"

// OrderUseCase owns the order lifecycle: creation, administrative status
// transitions and read access with ownership checks.
type OrderUseCase struct {
	orders     repository.OrderRepository
	events     repository.EventRepository
	users      repository.UserRepository
	cache      rediscache.OrderCache
	limiter    *ratelimit.Limiter
	authz      Authorizer
	notifier   Notifier
	clock      clock.Clock
	adminEmail string
	logger     *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	cache rediscache.OrderCache,
	limiter *ratelimit.Limiter,
	authz Authorizer,
	notifier Notifier,
	clk clock.Clock,
	adminEmail string,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:     orders,
		events:     events,
		users:      users,
		cache:      cache,
		limiter:    limiter,
		authz:      authz,
		notifier:   notifier,
		clock:      clk,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Create validates and persists a new order with status REVIEW. The caller
// is already authenticated; creation is rate limited per user.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, in repository.CreateOrderInput) (*model.Order, error) {
	city := strings.TrimSpace(in.City)
	if !cities.Valid(city) {
		return nil, fmt.Errorf("%w: unknown city %q", domainErrors.ErrValidation, city)
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", domainErrors.ErrValidation)
	}

	if in.DueDate != nil && in.DueDate.Before(startOfDay(u.clock.Now())) {
		return nil, fmt.Errorf("%w: due date is in the past", domainErrors.ErrValidation)
	}

	allowed, err := u.limiter.Allow(ctx, ActionCreateOrder, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domainErrors.ErrRateLimited
	}

	order, err := u.orders.Create(ctx, repository.OrderCreate{
		UserID:      userID,
		City:        city,
		Description: description,
		DueDate:     in.DueDate,
		Budget:      in.Budget,
	})
	if err != nil {
		return nil, err
	}

	u.cache.InvalidateListing(ctx, userID)
	u.notifyCreated(ctx, order)

	return order, nil
}

// Transition applies an administrative status change. Any target status
// from the lifecycle enum is accepted: reachability is deliberately not
// enforced so an administrator can override any state.
func (u *OrderUseCase) Transition(ctx context.Context, actor *model.User, orderID int64, newStatus model.OrderStatus) error {
	if !u.authz.CanManageOrders(actor) {
		return domainErrors.ErrForbidden
	}

	if !model.KnownOrderStatus(newStatus) {
		return fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, newStatus)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("%s -> %s", order.Status, newStatus)
	if err := u.orders.UpdateStatus(ctx, orderID, newStatus, &actor.ID, message); err != nil {
		return err
	}

	u.cache.InvalidateListing(ctx, order.UserID)
	u.notifyStatusChanged(ctx, order, newStatus)

	return nil
}

// ListByUser returns the user's orders newest first, served through the
// listing cache.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if cached, ok := u.cache.GetListing(ctx, userID); ok {
		return cached, nil
	}

	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.cache.SetListing(ctx, userID, orders)
	return orders, nil
}

// Get returns one order. Non-owners without administration rights get
// ErrNotFound rather than a permission hint.
func (u *OrderUseCase) Get(ctx context.Context, caller *model.User, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID && !u.authz.CanManageOrders(caller) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// Events returns the order's audit trail newest first, with the same
// visibility rule as Get.
func (u *OrderUseCase) Events(ctx context.Context, caller *model.User, orderID int64) ([]model.OrderEvent, error) {
	if _, err := u.Get(ctx, caller, orderID); err != nil {
		return nil, err
	}
	return u.events.ListByOrder(ctx, orderID)
}

func (u *OrderUseCase) notifyCreated(ctx context.Context, order *model.Order) {
	u.notifier.Enqueue(mailer.Message{
		To:      u.adminEmail,
		Subject: fmt.Sprintf("New order #%d", order.ID),
		Body:    fmt.Sprintf("City: %s\n\n%s", order.City, order.Description),
	})

	owner, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		u.logger.Warn("owner lookup for notification failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return
	}
	if owner.NotifyOrderUpdates {
		u.notifier.Enqueue(mailer.Message{
			To:      owner.Email,
			Subject: fmt.Sprintf("Order #%d accepted for review", order.ID),
			Body:    fmt.Sprintf("Your order in %s is being reviewed.", order.City),
		})
	}
}

func (u *OrderUseCase) notifyStatusChanged(ctx context.Context, order *model.Order, newStatus model.OrderStatus) {
	owner, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		u.logger.Warn("owner lookup for notification failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return
	}
	if owner.NotifyOrderUpdates {
		u.notifier.Enqueue(mailer.Message{
			To:      owner.Email,
			Subject: fmt.Sprintf("Order #%d status update", order.ID),
			Body:    fmt.Sprintf("Order status changed to %s.", newStatus),
		})
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
