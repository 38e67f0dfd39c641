package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_events",
		"CREATE TABLE IF NOT EXISTS rate_limits",
		"CREATE TABLE IF NOT EXISTS email_change_tokens",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_user ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_rate_limits_key ON rate_limits").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func verify(t *testing.T, mock pgxmockv3.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	verify(t, mock)
}

func TestInitSchemaError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("ddl failed"))

	if err := storage.initSchema(context.Background()); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestUserRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hash", model.RoleUser).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "notify_order_updates", "notify_marketing", "created_at"}).
			AddRow(int64(1), true, false, now))

	user, err := storage.Users().Create(context.Background(), "alice@example.com", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID != 1 || user.Email != "alice@example.com" || !user.NotifyOrderUpdates || user.NotifyMarketing {
		t.Fatalf("unexpected user %+v", user)
	}
	verify(t, mock)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hash", model.RoleUser).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := storage.Users().Create(context.Background(), "alice@example.com", "hash", model.RoleUser)
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	verify(t, mock)
}

func userRow(now time.Time) *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{
		"id", "email", "password_hash", "name", "phone", "city", "organization",
		"role", "notify_order_updates", "notify_marketing", "created_at",
	}).AddRow(int64(1), "alice@example.com", "hash", "Alice", "", "Москва", "", model.RoleAdmin, true, false, now)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(userRow(time.Now()))

	user, err := storage.Users().GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if user.Role != model.RoleAdmin || user.City != "Москва" {
		t.Fatalf("unexpected user %+v", user)
	}
	verify(t, mock)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByID(context.Background(), 404)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	verify(t, mock)
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	storage, mock := newMockStorage(t)
	name := "Alice"
	city := "Казань"
	mock.ExpectExec("UPDATE users SET").
		WithArgs(int64(1), &name, (*string)(nil), &city, (*string)(nil), (*bool)(nil), (*bool)(nil)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	err := storage.Users().UpdateProfile(context.Background(), 1, repository.UserUpdate{Name: &name, City: &city})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	verify(t, mock)
}

func TestUserRepositoryUpdateProfileMissing(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	err := storage.Users().UpdateProfile(context.Background(), 404, repository.UserUpdate{})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepositoryChangeEmail(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET email").
		WithArgs("new@example.com", int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM email_change_tokens").
		WithArgs("tok").
		WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectCommit()

	if err := storage.Users().ChangeEmail(context.Background(), 1, "new@example.com", "tok"); err != nil {
		t.Fatalf("change email failed: %v", err)
	}
	verify(t, mock)
}

func TestUserRepositoryChangeEmailTaken(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET email").
		WithArgs("taken@example.com", int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := storage.Users().ChangeEmail(context.Background(), 1, "taken@example.com", "tok")
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	verify(t, mock)
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(7), "Москва", "вынести мусор", (*time.Time)(nil), (*int64)(nil), model.OrderStatusReview).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec("INSERT INTO order_events").
		WithArgs(int64(10), int64(7), model.EventTypeCreated, "").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	order, err := storage.Orders().Create(context.Background(), repository.OrderCreate{
		UserID:      7,
		City:        "Москва",
		Description: "вынести мусор",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.ID != 10 || order.Status != model.OrderStatusReview || order.UserID != 7 {
		t.Fatalf("unexpected order %+v", order)
	}
	verify(t, mock)
}

func TestOrderRepositoryCreateRollsBackOnEventFailure(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec("INSERT INTO order_events").
		WillReturnError(errors.New("event insert failed"))
	mock.ExpectRollback()

	_, err := storage.Orders().Create(context.Background(), repository.OrderCreate{UserID: 7, City: "Москва", Description: "d"})
	if err == nil {
		t.Fatal("expected error")
	}
	verify(t, mock)
}

func orderRowValues(now time.Time) []any {
	return []any{int64(10), int64(7), "Москва", "вынести мусор", (*time.Time)(nil), (*int64)(nil), model.OrderStatusReview, now, now}
}

func TestOrderRepositoryGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs(int64(10)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "user_id", "city", "description", "due_date", "budget", "status", "created_at", "updated_at"}).
			AddRow(orderRowValues(now)...))

	order, err := storage.Orders().GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if order.ID != 10 || order.City != "Москва" {
		t.Fatalf("unexpected order %+v", order)
	}
	verify(t, mock)
}

func TestOrderRepositoryListByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	rows := pgxmockv3.NewRows([]string{"id", "user_id", "city", "description", "due_date", "budget", "status", "created_at", "updated_at"}).
		AddRow(orderRowValues(now)...).
		AddRow(int64(9), int64(7), "Казань", "c", (*time.Time)(nil), (*int64)(nil), model.OrderStatusDone, now, now)
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	orders, err := storage.Orders().ListByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 10 || orders[1].Status != model.OrderStatusDone {
		t.Fatalf("unexpected listing %+v", orders)
	}
	verify(t, mock)
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	actor := int64(99)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(model.OrderStatusInProgress, int64(10)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_events").
		WithArgs(int64(10), &actor, model.EventTypeStatusChanged, "REVIEW -> IN_PROGRESS").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := storage.Orders().UpdateStatus(context.Background(), 10, model.OrderStatusInProgress, &actor, "REVIEW -> IN_PROGRESS")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	verify(t, mock)
}

func TestOrderRepositoryUpdateStatusMissing(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := storage.Orders().UpdateStatus(context.Background(), 404, model.OrderStatusDone, nil, "")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	verify(t, mock)
}

func TestEventRepositoryAppend(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("INSERT INTO order_events").
		WithArgs(int64(10), (*int64)(nil), model.EventTypePaymentStarted, "payment p-1 for 10000").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))

	err := storage.Events().Append(context.Background(), 10, nil, model.EventTypePaymentStarted, "payment p-1 for 10000")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	verify(t, mock)
}

func TestEventRepositoryListByOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	actor := int64(99)
	rows := pgxmockv3.NewRows([]string{"id", "order_id", "actor_id", "type", "message", "created_at"}).
		AddRow(int64(2), int64(10), &actor, model.EventTypeStatusChanged, "REVIEW -> DONE", now).
		AddRow(int64(1), int64(10), (*int64)(nil), model.EventTypeCreated, "", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM order_events WHERE order_id").
		WithArgs(int64(10)).
		WillReturnRows(rows)

	events, err := storage.Events().ListByOrder(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 2 || events[0].Type != model.EventTypeStatusChanged || events[1].ActorID != nil {
		t.Fatalf("unexpected events %+v", events)
	}
	verify(t, mock)
}

func TestRateLimitRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	since := time.Now().Add(-10 * time.Minute)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("order_create", int64(7), since).
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("INSERT INTO rate_limits").
		WithArgs("order_create", int64(7)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))

	count, err := storage.RateLimits().CountSince(context.Background(), "order_create", 7, since)
	if err != nil || count != 3 {
		t.Fatalf("count failed: count=%d err=%v", count, err)
	}
	if err := storage.RateLimits().Record(context.Background(), "order_create", 7); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	verify(t, mock)
}

func TestEmailTokenRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	expires := time.Now().Add(24 * time.Hour)
	mock.ExpectExec("INSERT INTO email_change_tokens").
		WithArgs("tok", int64(1), "new@example.com", expires).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT (.+) FROM email_change_tokens WHERE token").
		WithArgs("tok").
		WillReturnRows(pgxmockv3.NewRows([]string{"token", "user_id", "new_email", "expires_at"}).
			AddRow("tok", int64(1), "new@example.com", expires))

	if err := storage.EmailTokens().Create(context.Background(), "tok", 1, "new@example.com", expires); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	record, err := storage.EmailTokens().Get(context.Background(), "tok")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if record.UserID != 1 || record.NewEmail != "new@example.com" {
		t.Fatalf("unexpected record %+v", record)
	}
	verify(t, mock)
}

func TestEmailTokenRepositoryGetMissing(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT (.+) FROM email_change_tokens WHERE token").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.EmailTokens().Get(context.Background(), "missing")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	verify(t, mock)
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("inner failure")
	err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
	verify(t, mock)
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()

	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	verify(t, mock)
}
