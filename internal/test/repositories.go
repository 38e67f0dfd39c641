package test

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error

	EmailChanges []struct {
		UserID   int64
		NewEmail string
		Token    string
	}
	ChangeEmailErr error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByEmail == nil {
		s.ByEmail = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Email: email, PasswordHash: passwordHash, Role: role, NotifyOrderUpdates: true}
	s.Next++
	s.ByEmail[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProfile applies non-nil fields to the stored user.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id int64, update repository.UserUpdate) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.City != nil {
		user.City = *update.City
	}
	if update.Organization != nil {
		user.Organization = *update.Organization
	}
	if update.NotifyOrderUpdates != nil {
		user.NotifyOrderUpdates = *update.NotifyOrderUpdates
	}
	if update.NotifyMarketing != nil {
		user.NotifyMarketing = *update.NotifyMarketing
	}
	return nil
}

// ChangeEmail records the swap and applies it to the stored user.
func (s *UserRepositoryStub) ChangeEmail(ctx context.Context, id int64, newEmail, token string) error {
	if s.ChangeEmailErr != nil {
		return s.ChangeEmailErr
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByEmail, user.Email)
	user.Email = newEmail
	s.ByEmail[newEmail] = user
	s.EmailChanges = append(s.EmailChanges, struct {
		UserID   int64
		NewEmail string
		Token    string
	}{id, newEmail, token})
	return nil
}

// StatusUpdateCall stores information about UpdateStatus invocations.
type StatusUpdateCall struct {
	OrderID int64
	Status  model.OrderStatus
	ActorID *int64
	Message string
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, repository.OrderCreate) (*model.Order, error)
	GetByIDFn      func(context.Context, int64) (*model.Order, error)
	ListByUserFn   func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn func(context.Context, int64, model.OrderStatus, *int64, string) error

	Created     []repository.OrderCreate
	Orders      []model.Order
	UpdateCalls []StatusUpdateCall
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, in repository.OrderCreate) (*model.Order, error) {
	s.Created = append(s.Created, in)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return &model.Order{
		ID:          1,
		UserID:      in.UserID,
		City:        in.City,
		Description: in.Description,
		DueDate:     in.DueDate,
		Budget:      in.Budget,
		Status:      model.OrderStatusReview,
		CreatedAt:   time.Unix(0, 0),
	}, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return s.Orders, nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, actorID *int64, message string) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status, actorID, message)
	}
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{OrderID: orderID, Status: status, ActorID: actorID, Message: message})
	return nil
}

// AppendedEvent stores information about Append invocations.
type AppendedEvent struct {
	OrderID int64
	ActorID *int64
	Type    model.EventType
	Message string
}

// EventRepositoryStub records appended events.
type EventRepositoryStub struct {
	AppendFn func(context.Context, int64, *int64, model.EventType, string) error
	ListFn   func(context.Context, int64) ([]model.OrderEvent, error)

	Appended []AppendedEvent
	Events   []model.OrderEvent
}

// Append stores the event for later inspection.
func (s *EventRepositoryStub) Append(ctx context.Context, orderID int64, actorID *int64, eventType model.EventType, message string) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, orderID, actorID, eventType, message)
	}
	s.Appended = append(s.Appended, AppendedEvent{OrderID: orderID, ActorID: actorID, Type: eventType, Message: message})
	return nil
}

// ListByOrder returns configured events.
func (s *EventRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderEvent, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, orderID)
	}
	return s.Events, nil
}

// RateLimitRepositoryStub keeps attempts in-memory.
type RateLimitRepositoryStub struct {
	CountFn  func(context.Context, string, int64, time.Time) (int, error)
	RecordFn func(context.Context, string, int64) error

	Attempts map[string]int
	Recorded int
}

func rateKey(action string, userID int64) string {
	return fmt.Sprintf("%s:%d", action, userID)
}

// CountSince returns the configured attempt count.
func (s *RateLimitRepositoryStub) CountSince(ctx context.Context, action string, userID int64, since time.Time) (int, error) {
	if s.CountFn != nil {
		return s.CountFn(ctx, action, userID, since)
	}
	return s.Attempts[rateKey(action, userID)], nil
}

// Record stores the attempt.
func (s *RateLimitRepositoryStub) Record(ctx context.Context, action string, userID int64) error {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, action, userID)
	}
	if s.Attempts == nil {
		s.Attempts = make(map[string]int)
	}
	s.Attempts[rateKey(action, userID)]++
	s.Recorded++
	return nil
}

// EmailTokenRepositoryStub stores confirmation tokens in-memory.
type EmailTokenRepositoryStub struct {
	Tokens map[string]*model.EmailChangeToken
	Err    error
}

// Create stores the token record.
func (s *EmailTokenRepositoryStub) Create(ctx context.Context, token string, userID int64, newEmail string, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Tokens == nil {
		s.Tokens = make(map[string]*model.EmailChangeToken)
	}
	s.Tokens[token] = &model.EmailChangeToken{Token: token, UserID: userID, NewEmail: newEmail, ExpiresAt: expiresAt}
	return nil
}

// Get fetches a stored token or returns not found.
func (s *EmailTokenRepositoryStub) Get(ctx context.Context, token string) (*model.EmailChangeToken, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if t, ok := s.Tokens[token]; ok {
		return t, nil
	}
	return nil, domainErrors.ErrNotFound
}
