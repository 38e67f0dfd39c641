package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	"github.com/poruchai/poruchai/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage uses. Tests substitute a
// pgxmock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type eventRepository struct {
	storage *Storage
}

type rateLimitRepository struct {
	storage *Storage
}

type emailTokenRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Events() repository.EventRepository {
	return &eventRepository{storage: s}
}

func (s *Storage) RateLimits() repository.RateLimitRepository {
	return &rateLimitRepository{storage: s}
}

func (s *Storage) EmailTokens() repository.EmailTokenRepository {
	return &emailTokenRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            organization TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'user',
            notify_order_updates BOOLEAN NOT NULL DEFAULT TRUE,
            notify_marketing BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            city TEXT NOT NULL,
            description TEXT NOT NULL,
            due_date DATE,
            budget BIGINT,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            actor_id BIGINT REFERENCES users(id),
            type TEXT NOT NULL,
            message TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS rate_limits (
            id SERIAL PRIMARY KEY,
            action TEXT NOT NULL,
            user_id BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS email_change_tokens (
            token TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            new_email TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events(order_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_limits_key ON rate_limits(action, user_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
                   RETURNING id, notify_order_updates, notify_marketing, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email, passwordHash, role).
		Scan(&u.ID, &u.NotifyOrderUpdates, &u.NotifyMarketing, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Email = email
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

const userColumns = `id, email, password_hash, name, phone, city, organization, role,
                     notify_order_updates, notify_marketing, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.City,
		&u.Organization, &u.Role, &u.NotifyOrderUpdates, &u.NotifyMarketing, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update repository.UserUpdate) error {
	const query = `UPDATE users SET
                       name = COALESCE($2, name),
                       phone = COALESCE($3, phone),
                       city = COALESCE($4, city),
                       organization = COALESCE($5, organization),
                       notify_order_updates = COALESCE($6, notify_order_updates),
                       notify_marketing = COALESCE($7, notify_marketing)
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id,
		update.Name, update.Phone, update.City, update.Organization,
		update.NotifyOrderUpdates, update.NotifyMarketing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// ChangeEmail applies the email swap and token removal atomically so the
// token can never outlive the change it confirmed.
func (r *userRepository) ChangeEmail(ctx context.Context, id int64, newEmail, token string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET email=$1 WHERE id=$2`, newEmail, id)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM email_change_tokens WHERE token=$1`, token); err != nil {
			return err
		}
		return nil
	})
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, city, description, due_date, budget, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.City, &o.Description, &o.DueDate, &o.Budget,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, in repository.OrderCreate) (*model.Order, error) {
	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (user_id, city, description, due_date, budget, status)
                             VALUES ($1, $2, $3, $4, $5, $6)
                             RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder, in.UserID, in.City, in.Description, in.DueDate, in.Budget, model.OrderStatusReview).
			Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertEvent = `INSERT INTO order_events (order_id, actor_id, type, message) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, insertEvent, order.ID, in.UserID, model.EventTypeCreated, ""); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.UserID = in.UserID
	order.City = in.City
	order.Description = in.Description
	order.DueDate = in.DueDate
	order.Budget = in.Budget
	order.Status = model.OrderStatusReview
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.City, &o.Description, &o.DueDate, &o.Budget,
			&o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, actorID *int64, message string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
		tag, err := tx.Exec(ctx, updateQuery, status, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		const insertEvent = `INSERT INTO order_events (order_id, actor_id, type, message) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, insertEvent, orderID, actorID, model.EventTypeStatusChanged, message); err != nil {
			return err
		}
		return nil
	})
}

// --- EventRepository implementation ---

func (r *eventRepository) Append(ctx context.Context, orderID int64, actorID *int64, eventType model.EventType, message string) error {
	const query = `INSERT INTO order_events (order_id, actor_id, type, message) VALUES ($1, $2, $3, $4)`
	_, err := r.storage.pool.Exec(ctx, query, orderID, actorID, eventType, message)
	return err
}

func (r *eventRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderEvent, error) {
	const query = `SELECT id, order_id, actor_id, type, message, created_at
                   FROM order_events WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderEvent
	for rows.Next() {
		var e model.OrderEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.ActorID, &e.Type, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- RateLimitRepository implementation ---

func (r *rateLimitRepository) CountSince(ctx context.Context, action string, userID int64, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM rate_limits WHERE action=$1 AND user_id=$2 AND created_at >= $3`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, action, userID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rateLimitRepository) Record(ctx context.Context, action string, userID int64) error {
	const query = `INSERT INTO rate_limits (action, user_id) VALUES ($1, $2)`
	_, err := r.storage.pool.Exec(ctx, query, action, userID)
	return err
}

// --- EmailTokenRepository implementation ---

func (r *emailTokenRepository) Create(ctx context.Context, token string, userID int64, newEmail string, expiresAt time.Time) error {
	const query = `INSERT INTO email_change_tokens (token, user_id, new_email, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.storage.pool.Exec(ctx, query, token, userID, newEmail, expiresAt)
	return err
}

func (r *emailTokenRepository) Get(ctx context.Context, token string) (*model.EmailChangeToken, error) {
	const query = `SELECT token, user_id, new_email, expires_at FROM email_change_tokens WHERE token=$1`
	var t model.EmailChangeToken
	err := r.storage.pool.QueryRow(ctx, query, token).Scan(&t.Token, &t.UserID, &t.NewEmail, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
