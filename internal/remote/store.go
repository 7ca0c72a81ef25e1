// Package remote reconciles local order state with the order store of record.
package remote

import (
	"context"
	"time"

	"greenbuild/internal/models"
)

// DefaultTimeout bounds every store call when StoreConfig.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// Store is the only way the tracker reads or writes submitted orders.
// Writes become visible through FetchAll only; callers re-fetch after writing.
type Store interface {
	// FetchAll returns the current order set, dropping malformed rows.
	FetchAll(ctx context.Context) ([]models.OrderItem, error)
	// CreateMany submits a batch in one operation. It either fully succeeds
	// or returns an error; there is no per-item result.
	CreateMany(ctx context.Context, items []models.OrderItem) error
	// UpdateOne patches exactly one row. A missing row yields *models.NotFoundError.
	UpdateOne(ctx context.Context, id string, patch models.OrderPatch) error
}

// StoreConfig configures the HTTP store.
type StoreConfig struct {
	BaseURL string
	Timeout time.Duration
	// Location reads row timestamps that carry no offset. Nil means UTC.
	Location *time.Location
}

func (c StoreConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// callTimeout picks the configured timeout, shortened by any context deadline.
func callTimeout(ctx context.Context, configured time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < configured {
			return remaining
		}
	}
	return configured
}
