package repository

import (
	"context"
	"time"

	"github.com/poruchai/poruchai/internal/domain/model"
)

// EmailTokenRepository stores single-use email change confirmations.
type EmailTokenRepository interface {
	Create(ctx context.Context, token string, userID int64, newEmail string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*model.EmailChangeToken, error)
}
