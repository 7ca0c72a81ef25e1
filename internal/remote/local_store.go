package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"greenbuild/internal/models"
	"greenbuild/internal/repositories"
)

// LocalStore keeps orders in the local database. It is the fallback used
// when no remote store is configured, and backs the embedded store routes.
type LocalStore struct {
	rows repositories.RowRepository
	loc  *time.Location
}

// NewLocalStore creates a store on top of rows. Timestamps without an offset
// are read in loc, or UTC when loc is nil.
func NewLocalStore(rows repositories.RowRepository, loc *time.Location) *LocalStore {
	return &LocalStore{rows: rows, loc: loc}
}

// FetchAll returns every well-formed row.
func (s *LocalStore) FetchAll(ctx context.Context) ([]models.OrderItem, error) {
	raw, err := s.FetchRows(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeRows(raw, s.loc), nil
}

// FetchRows returns the stored rows without normalization.
func (s *LocalStore) FetchRows(ctx context.Context) ([]map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.SyncError{Op: "fetchAll", Err: err}
	}
	stored, err := s.rows.GetAll()
	if err != nil {
		return nil, &models.SyncError{Op: "fetchAll", Err: err}
	}

	rows := make([]map[string]interface{}, 0, len(stored))
	for _, r := range stored {
		var row map[string]interface{}
		if err := json.Unmarshal([]byte(r.Payload), &row); err != nil {
			log.Printf("Skipping undecodable store row %s: %v", r.ID, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CreateMany stores the batch in one transaction.
func (s *LocalStore) CreateMany(ctx context.Context, items []models.OrderItem) error {
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, DenormalizeItem(item))
	}
	return s.InsertRows(ctx, rows)
}

// InsertRows stores raw rows, each of which must carry an "id" column.
func (s *LocalStore) InsertRows(ctx context.Context, rows []map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return &models.SyncError{Op: "createMany", Err: err}
	}
	stored := make([]models.StoreRow, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		if id == "" {
			return models.NewValidationError("id", "every row needs an id")
		}
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row %s: %w", id, err)
		}
		stored = append(stored, models.StoreRow{ID: id, Payload: string(payload)})
	}
	if err := s.rows.CreateMany(stored); err != nil {
		return &models.SyncError{Op: "createMany", Err: err}
	}
	return nil
}

// UpdateOne merges the patch into the stored row.
func (s *LocalStore) UpdateOne(ctx context.Context, id string, patch models.OrderPatch) error {
	return s.MergeRow(ctx, id, DenormalizePatch(patch))
}

// MergeRow overwrites the given columns of row id, leaving the rest untouched.
func (s *LocalStore) MergeRow(ctx context.Context, id string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return &models.SyncError{Op: "updateOne", Err: err}
	}
	stored, err := s.rows.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRowNotFound) {
			return &models.NotFoundError{ID: id}
		}
		return &models.SyncError{Op: "updateOne", Err: err}
	}

	row := make(map[string]interface{})
	if err := json.Unmarshal([]byte(stored.Payload), &row); err != nil {
		return &models.SyncError{Op: "updateOne", Err: fmt.Errorf("failed to decode row %s: %w", id, err)}
	}
	for k, v := range data {
		if k == "id" {
			continue
		}
		row[k] = v
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row %s: %w", id, err)
	}

	stored.Payload = string(payload)
	if err := s.rows.Update(stored); err != nil {
		if errors.Is(err, repositories.ErrRowNotFound) {
			return &models.NotFoundError{ID: id}
		}
		return &models.SyncError{Op: "updateOne", Err: err}
	}
	return nil
}
