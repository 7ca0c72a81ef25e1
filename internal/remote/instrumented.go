package remote

import (
	"context"
	"errors"
	"time"

	"greenbuild/internal/metrics"
	"greenbuild/internal/models"
)

// InstrumentedStore records metrics for every call to the wrapped store.
type InstrumentedStore struct {
	next Store
}

// WithMetrics wraps next with Prometheus instrumentation.
func WithMetrics(next Store) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

func outcome(err error) string {
	var notFound *models.NotFoundError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &notFound):
		return "not_found"
	default:
		return "error"
	}
}

// FetchAll implements Store.
func (s *InstrumentedStore) FetchAll(ctx context.Context) ([]models.OrderItem, error) {
	start := time.Now()
	items, err := s.next.FetchAll(ctx)
	metrics.RecordStoreOperation("fetch_all", outcome(err), time.Since(start))
	return items, err
}

// CreateMany implements Store.
func (s *InstrumentedStore) CreateMany(ctx context.Context, items []models.OrderItem) error {
	start := time.Now()
	err := s.next.CreateMany(ctx, items)
	metrics.RecordStoreOperation("create_many", outcome(err), time.Since(start))
	return err
}

// UpdateOne implements Store.
func (s *InstrumentedStore) UpdateOne(ctx context.Context, id string, patch models.OrderPatch) error {
	start := time.Now()
	err := s.next.UpdateOne(ctx, id, patch)
	metrics.RecordStoreOperation("update_one", outcome(err), time.Since(start))
	return err
}
