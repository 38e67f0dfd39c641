package app

import (
	"context"

	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/usecase"
)

// MarketFacade aggregates the marketplace use cases behind the single
// surface consumed by the HTTP layer.
type MarketFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	profile  *usecase.ProfileUseCase
}

// NewMarketFacade constructs MarketFacade.
func NewMarketFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase, profile *usecase.ProfileUseCase) *MarketFacade {
	return &MarketFacade{auth: auth, orders: orders, payments: payments, profile: profile}
}

func (f *MarketFacade) Register(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password)
	return token, err
}

func (f *MarketFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketFacade) CreateOrder(ctx context.Context, userID int64, in repository.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, userID, in)
}

func (f *MarketFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *MarketFacade) Order(ctx context.Context, callerID, orderID int64) (*model.Order, error) {
	caller, err := f.auth.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return f.orders.Get(ctx, caller, orderID)
}

func (f *MarketFacade) OrderEvents(ctx context.Context, callerID, orderID int64) ([]model.OrderEvent, error) {
	caller, err := f.auth.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return f.orders.Events(ctx, caller, orderID)
}

func (f *MarketFacade) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) error {
	actor, err := f.auth.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.Transition(ctx, actor, orderID, status)
}

func (f *MarketFacade) StartPayment(ctx context.Context, userID, orderID int64) (*model.PaymentInit, error) {
	return f.payments.Start(ctx, userID, orderID)
}

func (f *MarketFacade) ApplyPaymentCallback(ctx context.Context, fields map[string]any) error {
	return f.payments.ApplyCallback(ctx, fields)
}

func (f *MarketFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.profile.Get(ctx, userID)
}

func (f *MarketFacade) UpdateProfile(ctx context.Context, userID int64, update repository.UserUpdate) error {
	return f.profile.Update(ctx, userID, update)
}

func (f *MarketFacade) RequestEmailChange(ctx context.Context, userID int64, newEmail string) error {
	return f.profile.RequestEmailChange(ctx, userID, newEmail)
}

func (f *MarketFacade) ConfirmEmailChange(ctx context.Context, token string) error {
	return f.profile.ConfirmEmailChange(ctx, token)
}
