package model

import "time"

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusReview          OrderStatus = "REVIEW"
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusInProgress      OrderStatus = "IN_PROGRESS"
	OrderStatusDone            OrderStatus = "DONE"
	OrderStatusCanceled        OrderStatus = "CANCELED"
)

// KnownOrderStatus reports whether s is one of the five lifecycle values.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusReview, OrderStatusAwaitingPayment, OrderStatusInProgress, OrderStatusDone, OrderStatusCanceled:
		return true
	}
	return false
}

// Order describes a task request submitted by a user.
type Order struct {
	ID          int64
	UserID      int64
	City        string
	Description string
	DueDate     *time.Time
	Budget      *int64 // minor currency units
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
