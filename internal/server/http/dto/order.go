package dto

import "time"

// CreateOrderRequest describes the order creation payload. DueDate is an
// ISO calendar date (2006-01-02).
type CreateOrderRequest struct {
	City        string `json:"city"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Budget      *int64 `json:"budget,omitempty"`
}

// CreateOrderResponse returns the new order's identifier.
type CreateOrderResponse struct {
	ID int64 `json:"id"`
}

// OrderResponse represents one order in listings and detail views.
type OrderResponse struct {
	ID          int64     `json:"id"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date,omitempty"`
	Budget      *int64    `json:"budget,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusUpdateRequest carries the administrative target status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// EventResponse represents one audit trail entry.
type EventResponse struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
