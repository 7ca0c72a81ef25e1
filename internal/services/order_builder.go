package services

import (
	"fmt"
	"strings"
	"time"

	"greenbuild/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Requester identifies who is asking for an item.
type Requester struct {
	UserID     string
	UserName   string
	Department string
}

// OrderBuilder constructs order items and bills.
type OrderBuilder struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewOrderBuilder creates a new OrderBuilder.
func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		validate: models.NewValidator(),
		now:      time.Now,
	}
}

// NewItem validates the input and returns a PENDING item with a fresh ID.
func (b *OrderBuilder) NewItem(input models.ItemInput, who Requester) (*models.OrderItem, error) {
	input.ProductName = strings.TrimSpace(input.ProductName)
	input.GreenLabel = models.ParseGreenLabel(string(input.GreenLabel))
	if err := models.ValidateStruct(b.validate, input); err != nil {
		return nil, err
	}
	// Reports cannot classify a green item without its label.
	if input.IsGreen && input.GreenLabel == "" {
		return nil, models.NewValidationError("GreenLabel", "a green label is required when the item is green")
	}
	if !input.IsGreen {
		input.GreenLabel = ""
		input.ImageAttachment = ""
	}

	requestedAt := b.now().UTC()
	return &models.OrderItem{
		ID:              newItemID(requestedAt),
		ProductID:       input.ProductID,
		ProductName:     input.ProductName,
		Description:     input.Description,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		IsGreen:         input.IsGreen,
		GreenLabel:      input.GreenLabel,
		ImageAttachment: input.ImageAttachment,
		RequestedAt:     requestedAt,
		Status:          models.StatusPending,
		UserID:          who.UserID,
		UserName:        who.UserName,
		Department:      who.Department,
	}, nil
}

// AttachToBill stamps billID on every item and returns it. An empty billID
// is replaced by a freshly generated one.
func (b *OrderBuilder) AttachToBill(items []models.OrderItem, billID string) string {
	if billID == "" {
		billID = b.NewBillID()
	}
	for i := range items {
		items[i].BillID = billID
	}
	return billID
}

// NewBillID returns a bill identifier unique across checkouts, even two
// issued within the same millisecond.
func (b *OrderBuilder) NewBillID() string {
	return fmt.Sprintf("BILL-%d-%s", b.now().UnixMilli(), strings.ToUpper(randomHex(12)))
}

func newItemID(at time.Time) string {
	return fmt.Sprintf("ITEM-%d-%s", at.UnixMilli(), uuid.New().String())
}

func randomHex(n int) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
}
