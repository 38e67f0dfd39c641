package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
	"github.com/poruchai/poruchai/internal/pkg/cities"
	"github.com/poruchai/poruchai/internal/pkg/clock"
)

// emailTokenTTL bounds how long an email change confirmation stays valid.
const emailTokenTTL = 24 * time.Hour

// ProfileUseCase manages user profile data and the token-confirmed email
// change flow.
type ProfileUseCase struct {
	users    repository.UserRepository
	tokens   repository.EmailTokenRepository
	notifier Notifier
	clock    clock.Clock
	baseURL  string
	logger   *slog.Logger
}

// NewProfileUseCase constructs ProfileUseCase.
func NewProfileUseCase(
	users repository.UserRepository,
	tokens repository.EmailTokenRepository,
	notifier Notifier,
	clk clock.Clock,
	baseURL string,
	logger *slog.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		clock:    clk,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Get fetches the caller's profile.
func (u *ProfileUseCase) Get(ctx context.Context, userID int64) (*model.User, error) {
	return u.users.GetByID(ctx, userID)
}

// Update applies the provided profile fields. A default city, when set,
// must belong to the known city set.
func (u *ProfileUseCase) Update(ctx context.Context, userID int64, update repository.UserUpdate) error {
	if update.City != nil && *update.City != "" && !cities.Valid(*update.City) {
		return fmt.Errorf("%w: unknown city %q", domainErrors.ErrValidation, *update.City)
	}
	return u.users.UpdateProfile(ctx, userID, update)
}

// RequestEmailChange stores a single-use confirmation token and mails the
// confirmation link to the new address. The login email stays unchanged
// until the token is confirmed.
func (u *ProfileUseCase) RequestEmailChange(ctx context.Context, userID int64, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if !validEmail(newEmail) {
		return fmt.Errorf("%w: invalid email", domainErrors.ErrValidation)
	}

	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return err
	}

	token := ksuid.New().String()
	expiresAt := u.clock.Now().Add(emailTokenTTL)
	if err := u.tokens.Create(ctx, token, userID, newEmail, expiresAt); err != nil {
		return err
	}

	u.notifier.Enqueue(mailer.Message{
		To:      newEmail,
		Subject: "Confirm your new email",
		Body:    fmt.Sprintf("Follow the link to confirm the change: %s/api/user/email/confirm?token=%s", u.baseURL, token),
	})

	return nil
}

// ConfirmEmailChange swaps the login email for a valid token. The swap and
// the token removal are applied as one atomic unit by the repository.
func (u *ProfileUseCase) ConfirmEmailChange(ctx context.Context, token string) error {
	record, err := u.tokens.Get(ctx, token)
	if err != nil {
		return err
	}

	if u.clock.Now().After(record.ExpiresAt) {
		return domainErrors.ErrTokenExpired
	}

	if err := u.users.ChangeEmail(ctx, record.UserID, record.NewEmail, token); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}

	u.logger.Info("login email changed", slog.Int64("user", record.UserID))
	return nil
}
