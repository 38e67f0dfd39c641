package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/poruchai/poruchai/internal/domain/model"
)

const (
	// keyUserOrders caches a user's order listing: orders:user:{user_id}.
	keyUserOrders = "orders:user:%d"

	listingTTL = 5 * time.Minute
)

// OrderCache stores and invalidates per-user order listings. A miss or a
// cache backend failure is never fatal to the caller.
type OrderCache interface {
	GetListing(ctx context.Context, userID int64) ([]model.Order, bool)
	SetListing(ctx context.Context, userID int64, orders []model.Order)
	InvalidateListing(ctx context.Context, userID int64)
}

// Cache implements OrderCache on top of redis.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a redis-backed order cache.
func New(addr string, logger *slog.Logger) *Cache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Cache{client: client, logger: logger}
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetListing(ctx context.Context, userID int64) ([]model.Order, bool) {
	raw, err := c.client.Get(ctx, listingKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("order cache get failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		c.logger.Warn("order cache decode failed", slog.String("error", err.Error()))
		return nil, false
	}
	return orders, true
}

func (c *Cache) SetListing(ctx context.Context, userID int64, orders []model.Order) {
	raw, err := json.Marshal(orders)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listingKey(userID), raw, listingTTL).Err(); err != nil {
		c.logger.Warn("order cache set failed", slog.String("error", err.Error()))
	}
}

func (c *Cache) InvalidateListing(ctx context.Context, userID int64) {
	if err := c.client.Del(ctx, listingKey(userID)).Err(); err != nil {
		c.logger.Warn("order cache invalidate failed", slog.String("error", err.Error()))
	}
}

func listingKey(userID int64) string {
	return fmt.Sprintf(keyUserOrders, userID)
}
