package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"greenbuild/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HTTPStore talks to a tabular order store over its JSON contract:
//
//	GET   {base}/orders          -> [row, ...]
//	POST  {base}/orders          {"data": [row, ...]}
//	PATCH {base}/orders/id/{id}  {"data": {...}}
type HTTPStore struct {
	cfg StoreConfig
}

// NewHTTPStore creates a store client for cfg.BaseURL.
func NewHTTPStore(cfg StoreConfig) *HTTPStore {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPStore{cfg: cfg}
}

type envelope struct {
	Data interface{} `json:"data"`
}

// FetchAll retrieves every row, bypassing intermediate caches.
func (s *HTTPStore) FetchAll(ctx context.Context) ([]models.OrderItem, error) {
	// Cache busting; a stale snapshot makes orders from other devices vanish.
	uri := fmt.Sprintf("%s/orders?_ts=%d", s.cfg.BaseURL, time.Now().UnixNano())
	code, body, err := s.do(ctx, fiber.MethodGet, uri, nil)
	if err != nil {
		return nil, &models.SyncError{Op: "fetchAll", Err: err}
	}
	if code < 200 || code >= 300 {
		return nil, &models.SyncError{Op: "fetchAll", Err: fmt.Errorf("store responded with status %d", code)}
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, &models.SyncError{Op: "fetchAll", Err: err}
	}
	return normalizeRows(rows, s.cfg.Location), nil
}

// CreateMany posts the batch as one request. Success needs a 2xx confirmation.
func (s *HTTPStore) CreateMany(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, DenormalizeItem(item))
	}

	code, _, err := s.do(ctx, fiber.MethodPost, s.cfg.BaseURL+"/orders", envelope{Data: rows})
	if err != nil {
		return &models.SyncError{Op: "createMany", Err: err}
	}
	if code < 200 || code >= 300 {
		return &models.SyncError{Op: "createMany", Err: fmt.Errorf("store responded with status %d", code)}
	}
	return nil
}

// UpdateOne patches the row with id. A 404 is reported as *models.NotFoundError.
func (s *HTTPStore) UpdateOne(ctx context.Context, id string, patch models.OrderPatch) error {
	uri := fmt.Sprintf("%s/orders/id/%s", s.cfg.BaseURL, url.PathEscape(id))
	code, _, err := s.do(ctx, fiber.MethodPatch, uri, envelope{Data: DenormalizePatch(patch)})
	if err != nil {
		return &models.SyncError{Op: "updateOne", Err: err}
	}
	switch {
	case code == fiber.StatusNotFound:
		return &models.NotFoundError{ID: id}
	case code < 200 || code >= 300:
		return &models.SyncError{Op: "updateOne", Err: fmt.Errorf("store responded with status %d", code)}
	}
	return nil
}

func (s *HTTPStore) do(ctx context.Context, method, uri string, payload interface{}) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	timeout := callTimeout(ctx, s.cfg.timeout())
	if timeout <= 0 {
		return 0, nil, context.DeadlineExceeded
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	agent.Set(fiber.HeaderCacheControl, "no-cache")
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)
	if payload != nil {
		agent.JSON(payload)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, fmt.Errorf("failed to prepare %s %s: %w", method, uri, err)
	}

	// Bytes releases the agent.
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, fmt.Errorf("%s %s: %v", method, uri, errs[0])
	}
	return code, body, nil
}

func decodeRows(body []byte) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	var wrapped struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode store rows: %w", err)
	}
	return wrapped.Data, nil
}

// normalizeRows converts raw rows, logging and dropping the malformed ones.
func normalizeRows(rows []map[string]interface{}, loc *time.Location) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(rows))
	for i, row := range rows {
		item, err := NormalizeRowIn(row, loc)
		if err != nil {
			log.Printf("Skipping store row %d: %v", i, err)
			continue
		}
		items = append(items, item)
	}
	return items
}
