package model

import "time"

// EventType classifies entries in an order's audit trail.
type EventType string

const (
	EventTypeCreated        EventType = "CREATED"
	EventTypeStatusChanged  EventType = "STATUS_CHANGED"
	EventTypePaymentStarted EventType = "PAYMENT_STARTED"
)

// OrderEvent is an immutable audit record attached to an order.
type OrderEvent struct {
	ID        int64
	OrderID   int64
	ActorID   *int64
	Type      EventType
	Message   string
	CreatedAt time.Time
}
