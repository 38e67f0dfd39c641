package repository

import (
	"context"
	"time"

	"github.com/poruchai/poruchai/internal/domain/model"
)

// CreateOrderInput is the caller-supplied order creation request, before
// validation and without the order's owner.
type CreateOrderInput struct {
	City        string
	Description string
	DueDate     *time.Time
	Budget      *int64
}

// OrderCreate is the validated input for persisting a new order.
type OrderCreate struct {
	UserID      int64
	City        string
	Description string
	DueDate     *time.Time
	Budget      *int64
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists the order with its initial status and appends the
	// CREATED audit event in the same transaction.
	Create(ctx context.Context, in OrderCreate) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// UpdateStatus persists the new status and appends the audit event in
	// the same transaction.
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, actorID *int64, message string) error
}
