package repository

import (
	"context"

	"github.com/poruchai/poruchai/internal/domain/model"
)

// EventRepository provides access to the append-only order audit trail.
type EventRepository interface {
	Append(ctx context.Context, orderID int64, actorID *int64, eventType model.EventType, message string) error
	// ListByOrder returns events newest first.
	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderEvent, error)
}
