package repository

import (
	"context"

	"github.com/poruchai/poruchai/internal/domain/model"
)

// UserUpdate carries profile fields to change. Nil means keep as is.
type UserUpdate struct {
	Name               *string
	Phone              *string
	City               *string
	Organization       *string
	NotifyOrderUpdates *bool
	NotifyMarketing    *bool
}

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, update UserUpdate) error
	// ChangeEmail swaps the login email and removes the confirming token
	// as a single transaction.
	ChangeEmail(ctx context.Context, id int64, newEmail, token string) error
}
