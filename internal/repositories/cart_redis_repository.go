package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"greenbuild/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix    = "cart:"
	redisCallTimeout = 5 * time.Second
)

// RedisCartRepository keeps each session's cart in a Redis list.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a cart repository on top of client.
// A zero ttl keeps carts until they are cleared.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// List returns the session's cart in insertion order.
func (r *RedisCartRepository) List(sessionID string) ([]models.OrderItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	raw, err := r.client.LRange(ctx, cartKey(sessionID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}

	items := make([]models.OrderItem, 0, len(raw))
	for _, entry := range raw {
		var item models.OrderItem
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			return nil, fmt.Errorf("failed to decode cart entry: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Append pushes an item onto the tail of the session's list.
func (r *RedisCartRepository) Append(sessionID string, item models.OrderItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, cartKey(sessionID), payload)
	if r.ttl > 0 {
		pipe.Expire(ctx, cartKey(sessionID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// Remove deletes the line with itemID. Missing lines are ignored.
func (r *RedisCartRepository) Remove(sessionID, itemID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	raw, err := r.client.LRange(ctx, cartKey(sessionID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}
	for _, entry := range raw {
		var item models.OrderItem
		if err := json.Unmarshal([]byte(entry), &item); err != nil || item.ID != itemID {
			continue
		}
		// LREM matches on the stored bytes, so remove the raw entry.
		if err := r.client.LRem(ctx, cartKey(sessionID), 1, entry).Err(); err != nil {
			return fmt.Errorf("failed to remove cart item %s: %w", itemID, err)
		}
	}
	return nil
}

// Clear deletes the session's list.
func (r *RedisCartRepository) Clear(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", sessionID, err)
	}
	return nil
}
