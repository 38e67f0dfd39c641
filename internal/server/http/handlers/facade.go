package handlers

import (
	"context"

	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, in repository.CreateOrderInput) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, callerID, orderID int64) (*model.Order, error)
	OrderEvents(ctx context.Context, callerID, orderID int64) ([]model.OrderEvent, error)
	UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) error
}

// PaymentFacade provides payment operations.
type PaymentFacade interface {
	StartPayment(ctx context.Context, userID, orderID int64) (*model.PaymentInit, error)
	ApplyPaymentCallback(ctx context.Context, fields map[string]any) error
}

// ProfileFacade provides account profile operations.
type ProfileFacade interface {
	Profile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, update repository.UserUpdate) error
	RequestEmailChange(ctx context.Context, userID int64, newEmail string) error
	ConfirmEmailChange(ctx context.Context, token string) error
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
	ProfileFacade
}
