package test

import (
	"context"
	"sync"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
	"github.com/poruchai/poruchai/internal/adapter/payment"
	"github.com/poruchai/poruchai/internal/domain/model"
)

// GatewayStub simulates the payment gateway client.
type GatewayStub struct {
	InitFn   func(context.Context, payment.InitRequest) (*model.PaymentInit, error)
	VerifyFn func(map[string]any) bool

	InitCalls []payment.InitRequest
}

// Init records the request and delegates to override if any.
func (s *GatewayStub) Init(ctx context.Context, req payment.InitRequest) (*model.PaymentInit, error) {
	s.InitCalls = append(s.InitCalls, req)
	if s.InitFn != nil {
		return s.InitFn(ctx, req)
	}
	return &model.PaymentInit{PaymentID: "pay-stub", RedirectURL: "https://pay.example/stub"}, nil
}

// VerifyCallback reports signature validity, true unless overridden.
func (s *GatewayStub) VerifyCallback(fields map[string]any) bool {
	if s.VerifyFn != nil {
		return s.VerifyFn(fields)
	}
	return true
}

// MailerStub collects sent messages.
type MailerStub struct {
	mu   sync.Mutex
	Err  error
	sent []mailer.Message
}

// Send records the message unless an error is configured.
func (s *MailerStub) Send(msg mailer.Message) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

// Sent returns a copy of delivered messages.
func (s *MailerStub) Sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

// NotifierStub records messages enqueued for delivery.
type NotifierStub struct {
	mu       sync.Mutex
	Messages []mailer.Message
}

// Enqueue stores the message for inspection.
func (s *NotifierStub) Enqueue(msg mailer.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
}

// Enqueued returns a copy of collected messages.
func (s *NotifierStub) Enqueued() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// OrderCacheStub keeps listings in-memory and counts invalidations.
type OrderCacheStub struct {
	Listings      map[int64][]model.Order
	Invalidations []int64
	SetCalls      int
}

// GetListing returns the cached listing if present.
func (s *OrderCacheStub) GetListing(ctx context.Context, userID int64) ([]model.Order, bool) {
	orders, ok := s.Listings[userID]
	return orders, ok
}

// SetListing stores the listing.
func (s *OrderCacheStub) SetListing(ctx context.Context, userID int64, orders []model.Order) {
	if s.Listings == nil {
		s.Listings = make(map[int64][]model.Order)
	}
	s.Listings[userID] = orders
	s.SetCalls++
}

// InvalidateListing drops the listing and records the call.
func (s *OrderCacheStub) InvalidateListing(ctx context.Context, userID int64) {
	delete(s.Listings, userID)
	s.Invalidations = append(s.Invalidations, userID)
}
