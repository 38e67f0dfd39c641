package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
	"github.com/poruchai/poruchai/internal/adapter/payment"
	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/storage/rediscache"
)

// PaymentUseCase coordinates the gateway with the order lifecycle.
type PaymentUseCase struct {
	orders         repository.OrderRepository
	events         repository.EventRepository
	users          repository.UserRepository
	gateway        payment.Client
	cache          rediscache.OrderCache
	notifier       Notifier
	fallbackAmount int64
	logger         *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase. fallbackAmount (minor
// currency units) is charged for orders without an assigned budget.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	gateway payment.Client,
	cache rediscache.OrderCache,
	notifier Notifier,
	fallbackAmount int64,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:         orders,
		events:         events,
		users:          users,
		gateway:        gateway,
		cache:          cache,
		notifier:       notifier,
		fallbackAmount: fallbackAmount,
		logger:         logger,
	}
}

// Start initiates a payment for the caller's own order and returns the
// gateway redirect. Order state is never mutated on failure.
func (u *PaymentUseCase) Start(ctx context.Context, userID, orderID int64) (*model.PaymentInit, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}

	amount := u.fallbackAmount
	if order.Budget != nil && *order.Budget > 0 {
		amount = *order.Budget
	}

	init, err := u.gateway.Init(ctx, payment.InitRequest{
		OrderID:     order.ID,
		Amount:      amount,
		Description: order.Description,
	})
	if err != nil {
		u.logger.Error("payment init failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return nil, domainErrors.ErrPaymentInit
	}

	if err := u.events.Append(ctx, order.ID, &userID, model.EventTypePaymentStarted,
		fmt.Sprintf("payment %s for %d", init.PaymentID, amount)); err != nil {
		u.logger.Warn("payment event append failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
	}

	return init, nil
}

// ApplyCallback reconciles a gateway callback with the order lifecycle.
// Signature and payload shape problems are returned as typed errors; any
// failure after verification is logged and swallowed so the gateway is
// never forced into an endless retry over internal state.
func (u *PaymentUseCase) ApplyCallback(ctx context.Context, fields map[string]any) error {
	if !u.gateway.VerifyCallback(fields) {
		return domainErrors.ErrSignature
	}

	reference, _ := fields["OrderId"].(string)
	status, _ := fields["Status"].(string)
	if reference == "" || status == "" {
		return domainErrors.ErrBadPayload
	}

	orderID, err := payment.ResolveOrderID(reference)
	if err != nil {
		return domainErrors.ErrBadPayload
	}

	var target model.OrderStatus
	switch payment.MapStatus(status) {
	case model.PaymentOutcomeSucceeded:
		target = model.OrderStatusInProgress
	case model.PaymentOutcomeCanceled:
		target = model.OrderStatusCanceled
	default:
		return nil
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		u.logger.Error("callback order lookup failed", slog.Int64("order", orderID), slog.String("error", err.Error()))
		return nil
	}

	// Replayed callbacks with the same mapped status change nothing.
	if order.Status == target {
		return nil
	}

	message := fmt.Sprintf("%s -> %s (payment %s)", order.Status, target, status)
	if err := u.orders.UpdateStatus(ctx, orderID, target, nil, message); err != nil {
		u.logger.Error("callback status update failed", slog.Int64("order", orderID), slog.String("error", err.Error()))
		return nil
	}

	u.cache.InvalidateListing(ctx, order.UserID)
	u.notifyPayment(ctx, order, target)

	return nil
}

func (u *PaymentUseCase) notifyPayment(ctx context.Context, order *model.Order, target model.OrderStatus) {
	owner, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		u.logger.Warn("owner lookup for notification failed", slog.Int64("order", order.ID), slog.String("error", err.Error()))
		return
	}
	if !owner.NotifyOrderUpdates {
		return
	}

	subject := fmt.Sprintf("Order #%d payment received", order.ID)
	body := "Payment confirmed, work on your order has started."
	if target == model.OrderStatusCanceled {
		subject = fmt.Sprintf("Order #%d payment canceled", order.ID)
		body = "The payment was canceled and your order is closed."
	}
	u.notifier.Enqueue(mailer.Message{To: owner.Email, Subject: subject, Body: body})
}
