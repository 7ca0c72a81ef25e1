package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"greenbuild/internal/models"
	"greenbuild/internal/remote"

	"github.com/go-playground/validator/v10"
)

// OrderService handles checkout, direct orders and admin updates.
type OrderService struct {
	store     remote.Store
	carts     *CartService
	builder   *OrderBuilder
	publisher EventPublisher // optional
	validate  *validator.Validate
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store remote.Store, carts *CartService, builder *OrderBuilder, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		carts:     carts,
		builder:   builder,
		publisher: publisher,
		validate:  models.NewValidator(),
	}
}

// Bill groups the items submitted together under one bill ID.
type Bill struct {
	ID          string             `json:"billId"`
	RequestedAt time.Time          `json:"requestedAt"`
	UserName    string             `json:"userName"`
	Department  string             `json:"department"`
	Items       []models.OrderItem `json:"items"`
}

// OrderQuery filters the order list.
type OrderQuery struct {
	Text   string
	Status models.OrderStatus
	// UserName keeps one requester's orders, compared case-insensitively.
	UserName string
}

// Checkout submits the whole cart as one bill and returns its ID. The cart
// is cleared only after the store confirms the batch; on failure it is left
// untouched and a *models.SyncError is returned. Checkout is not idempotent
// and is never retried here.
func (s *OrderService) Checkout(ctx context.Context, sessionID string) (string, error) {
	items, err := s.carts.Items(sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return "", models.NewValidationError("Cart", "cart is empty")
	}
	who, err := s.carts.requester(sessionID)
	if err != nil {
		return "", err
	}

	for i := range items {
		items[i].Status = models.StatusPending
		items[i].UserName = who.UserName
		items[i].Department = who.Department
	}
	billID := s.builder.AttachToBill(items, "")

	if err := s.submit(ctx, billID, items); err != nil {
		return "", err
	}

	if err := s.carts.Clear(sessionID); err != nil {
		// The bill is stored; a stale cart is the lesser failure.
		log.Printf("Warning: bill %s submitted but cart for session %s was not cleared: %v", billID, sessionID, err)
	}
	return billID, nil
}

// OrderNow submits a single item directly, bypassing the cart.
func (s *OrderService) OrderNow(ctx context.Context, sessionID string, input models.ItemInput) (string, *models.OrderItem, error) {
	who, err := s.carts.requester(sessionID)
	if err != nil {
		return "", nil, err
	}
	item, err := s.builder.NewItem(input, who)
	if err != nil {
		return "", nil, err
	}

	items := []models.OrderItem{*item}
	billID := s.builder.AttachToBill(items, "")
	if err := s.submit(ctx, billID, items); err != nil {
		return "", nil, err
	}
	return billID, &items[0], nil
}

func (s *OrderService) submit(ctx context.Context, billID string, items []models.OrderItem) error {
	if err := s.store.CreateMany(ctx, items); err != nil {
		log.Printf("Error submitting bill %s (%d items): %v", billID, len(items), err)
		return err
	}

	ev := OrderEvent{
		Type:       EventOrderCreated,
		BillID:     billID,
		Status:     models.StatusPending,
		OccurredAt: time.Now(),
	}
	for _, item := range items {
		ev.OrderIDs = append(ev.OrderIDs, item.ID)
		if item.IsGreen {
			ev.GreenCount++
		}
	}
	publish(s.publisher, ev)
	return nil
}

// FetchAll returns the store's current order set.
func (s *OrderService) FetchAll(ctx context.Context) ([]models.OrderItem, error) {
	return s.store.FetchAll(ctx)
}

// Search returns orders matching q, newest first. Text matches product,
// user, department, item ID and bill ID case-insensitively.
func (s *OrderService) Search(ctx context.Context, q OrderQuery) ([]models.OrderItem, error) {
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	user := strings.TrimSpace(q.UserName)
	matched := make([]models.OrderItem, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if user != "" && !strings.EqualFold(strings.TrimSpace(o.UserName), user) {
			continue
		}
		if text != "" && !matchesText(o, text) {
			continue
		}
		matched = append(matched, o)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})
	return matched, nil
}

func matchesText(o models.OrderItem, text string) bool {
	for _, field := range []string{o.ProductName, o.UserName, o.Department, o.ID, o.BillID} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// TrackBills returns every bill containing an item whose bill ID, user or
// product matches text, with all of that bill's items. Newest bills first.
func (s *OrderService) TrackBills(ctx context.Context, text string) ([]Bill, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return []Bill{}, nil
	}
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool)
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.BillID), text) ||
			strings.Contains(strings.ToLower(o.UserName), text) ||
			strings.Contains(strings.ToLower(o.ProductName), text) {
			wanted[billKey(o)] = true
		}
	}
	return groupBills(orders, wanted), nil
}

// GetBill returns the items of one bill.
func (s *OrderService) GetBill(ctx context.Context, billID string) (*Bill, error) {
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	bills := groupBills(orders, map[string]bool{billID: true})
	if len(bills) == 0 {
		return nil, &models.NotFoundError{ID: billID}
	}
	return &bills[0], nil
}

// billKey is the bill an item belongs to. An item without a bill ID is a
// bill of its own.
func billKey(o models.OrderItem) string {
	if o.BillID != "" {
		return o.BillID
	}
	return o.ID
}

func groupBills(orders []models.OrderItem, wanted map[string]bool) []Bill {
	index := make(map[string]int)
	bills := make([]Bill, 0, len(wanted))
	for _, o := range orders {
		key := billKey(o)
		if !wanted[key] {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(bills)
			index[key] = i
			bills = append(bills, Bill{
				ID:          key,
				RequestedAt: o.RequestedAt,
				UserName:    o.UserName,
				Department:  o.Department,
			})
		}
		bills[i].Items = append(bills[i].Items, o)
		if o.RequestedAt.Before(bills[i].RequestedAt) {
			bills[i].RequestedAt = o.RequestedAt
		}
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].RequestedAt.After(bills[j].RequestedAt)
	})
	return bills
}

// UpdateOrder applies an admin patch to one order. The status change must
// follow the order lifecycle; the current status is read from the store.
// It returns the order as it should read after the update.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.OrderItem, error) {
	if patch.IsEmpty() {
		return nil, models.NewValidationError("Patch", "nothing to update")
	}
	if err := models.ValidateStruct(s.validate, patch); err != nil {
		return nil, err
	}

	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	var current *models.OrderItem
	for i := range orders {
		if orders[i].ID == id {
			current = &orders[i]
			break
		}
	}
	if current == nil {
		return nil, &models.NotFoundError{ID: id}
	}
	if patch.Status != nil {
		if err := current.Status.CheckTransition(*patch.Status); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateOne(ctx, id, patch); err != nil {
		log.Printf("Error updating order %s: %v", id, err)
		return nil, err
	}

	updated := patch.Apply(*current)
	publish(s.publisher, OrderEvent{
		Type:       EventOrderUpdated,
		BillID:     updated.BillID,
		OrderIDs:   []string{updated.ID},
		Status:     updated.Status,
		FinalPrice: updated.FinalPrice,
		OccurredAt: time.Now(),
	})
	return &updated, nil
}
