package test

import (
	"context"

	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn func(context.Context, string, string) (string, error)
	AuthFn     func(context.Context, string, string) (string, error)
	ParseFn    func(string) (int64, error)
}

// Register delegates to override or returns a static token.
func (s AuthFacadeStub) Register(ctx context.Context, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password)
	}
	return "token", nil
}

// Authenticate delegates to override or returns a static token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthFn != nil {
		return s.AuthFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken resolves token to user identifier.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, int64, repository.CreateOrderInput) (*model.Order, error)
	OrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderFn  func(context.Context, int64, int64) (*model.Order, error)
	EventsFn func(context.Context, int64, int64) ([]model.OrderEvent, error)
	UpdateFn func(context.Context, int64, int64, model.OrderStatus) error
}

// CreateOrder delegates to override or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID int64, in repository.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	return &model.Order{ID: 1, UserID: userID, City: in.City, Description: in.Description, Status: model.OrderStatusReview}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID}}, nil
}

// Order returns a single order visible to the caller.
func (s OrderFacadeStub) Order(ctx context.Context, callerID, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, callerID, orderID)
	}
	return &model.Order{ID: orderID, UserID: callerID}, nil
}

// OrderEvents returns the order's event history.
func (s OrderFacadeStub) OrderEvents(ctx context.Context, callerID, orderID int64) ([]model.OrderEvent, error) {
	if s.EventsFn != nil {
		return s.EventsFn(ctx, callerID, orderID)
	}
	return nil, nil
}

// UpdateOrderStatus applies an administrative transition.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, actorID, orderID, status)
	}
	return nil
}

// PaymentFacadeStub simulates payment operations.
type PaymentFacadeStub struct {
	StartFn    func(context.Context, int64, int64) (*model.PaymentInit, error)
	CallbackFn func(context.Context, map[string]any) error
}

// StartPayment delegates to override or returns a default session.
func (s PaymentFacadeStub) StartPayment(ctx context.Context, userID, orderID int64) (*model.PaymentInit, error) {
	if s.StartFn != nil {
		return s.StartFn(ctx, userID, orderID)
	}
	return &model.PaymentInit{PaymentID: "pay-1", RedirectURL: "https://pay.example/1"}, nil
}

// ApplyPaymentCallback delegates to override or accepts the notification.
func (s PaymentFacadeStub) ApplyPaymentCallback(ctx context.Context, fields map[string]any) error {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, fields)
	}
	return nil
}

// ProfileFacadeStub simulates profile operations.
type ProfileFacadeStub struct {
	ProfileFn func(context.Context, int64) (*model.User, error)
	UpdateFn  func(context.Context, int64, repository.UserUpdate) error
	RequestFn func(context.Context, int64, string) error
	ConfirmFn func(context.Context, string) error
}

// Profile returns the user's account data.
func (s ProfileFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Email: "user@example.com"}, nil
}

// UpdateProfile applies account changes.
func (s ProfileFacadeStub) UpdateProfile(ctx context.Context, userID int64, update repository.UserUpdate) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, update)
	}
	return nil
}

// RequestEmailChange starts the confirmation flow.
func (s ProfileFacadeStub) RequestEmailChange(ctx context.Context, userID int64, newEmail string) error {
	if s.RequestFn != nil {
		return s.RequestFn(ctx, userID, newEmail)
	}
	return nil
}

// ConfirmEmailChange resolves the confirmation token.
func (s ProfileFacadeStub) ConfirmEmailChange(ctx context.Context, token string) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, token)
	}
	return nil
}

// MarketFacadeStub aggregates facade stubs into a single dependency.
type MarketFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	ProfileFacadeStub
}
