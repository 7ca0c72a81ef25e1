package services

import (
	"errors"
	"testing"
	"time"

	"greenbuild/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requester = Requester{UserName: "Somchai", Department: "Finance"}

func TestOrderBuilder_NewItem(t *testing.T) {
	b := NewOrderBuilder()
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	item, err := b.NewItem(models.ItemInput{
		ProductName: "  A4 Paper 80gsm ",
		Quantity:    2,
		Unit:        "ream",
		IsGreen:     true,
		GreenLabel:  models.LabelGreenLabel,
	}, requester)

	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "A4 Paper 80gsm", item.ProductName)
	assert.Equal(t, models.StatusPending, item.Status)
	assert.Equal(t, fixed, item.RequestedAt)
	assert.Equal(t, "Somchai", item.UserName)
	assert.Equal(t, "Finance", item.Department)
	assert.Nil(t, item.FinalPrice)
	assert.Empty(t, item.BillID)
}

func TestOrderBuilder_NewItemValidation(t *testing.T) {
	b := NewOrderBuilder()

	tests := []struct {
		name  string
		input models.ItemInput
		field string
	}{
		{"zero quantity", models.ItemInput{ProductName: "Pen", Quantity: 0}, "Quantity"},
		{"negative quantity", models.ItemInput{ProductName: "Pen", Quantity: -3}, "Quantity"},
		{"missing name", models.ItemInput{ProductName: "   ", Quantity: 1}, "ProductName"},
		{"green without label", models.ItemInput{ProductName: "Pen", Quantity: 1, IsGreen: true}, "GreenLabel"},
		{"unknown label", models.ItemInput{ProductName: "Pen", Quantity: 1, IsGreen: true, GreenLabel: "Shiny"}, "GreenLabel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := b.NewItem(tt.input, requester)
			assert.Nil(t, item)

			var validationErr *models.ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}
}

func TestOrderBuilder_NewItemDropsLabelForRegularItems(t *testing.T) {
	item, err := NewOrderBuilder().NewItem(models.ItemInput{
		ProductName:     "Eraser",
		Quantity:        1,
		GreenLabel:      models.LabelOther,
		ImageAttachment: "https://example.com/proof.png",
	}, requester)

	require.NoError(t, err)
	assert.False(t, item.IsGreen)
	assert.Empty(t, item.GreenLabel)
	assert.Empty(t, item.ImageAttachment)
}

func TestOrderBuilder_IDsAreUniqueWithinTheSameMillisecond(t *testing.T) {
	b := NewOrderBuilder()
	fixed := time.Now()
	b.now = func() time.Time { return fixed }

	itemIDs := make(map[string]bool)
	billIDs := make(map[string]bool)
	for i := 0; i < 500; i++ {
		item, err := b.NewItem(models.ItemInput{ProductName: "Pen", Quantity: 1}, requester)
		require.NoError(t, err)
		assert.False(t, itemIDs[item.ID], "duplicate item id %s", item.ID)
		itemIDs[item.ID] = true

		billID := b.NewBillID()
		assert.False(t, billIDs[billID], "duplicate bill id %s", billID)
		billIDs[billID] = true
	}
}

func TestOrderBuilder_AttachToBill(t *testing.T) {
	b := NewOrderBuilder()
	items := []models.OrderItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	billID := b.AttachToBill(items, "")
	assert.Regexp(t, `^BILL-\d+-[0-9A-F]{12}$`, billID)
	for _, item := range items {
		assert.Equal(t, billID, item.BillID)
	}

	assert.Equal(t, "BILL-given", b.AttachToBill(items, "BILL-given"))
	assert.Equal(t, "BILL-given", items[2].BillID)
}

func TestOrderBuilder_NewItemAcceptsLabelSpellings(t *testing.T) {
	b := NewOrderBuilder()

	for _, spelling := range []string{"Green Label (ฉลากเขียว)", "green label", " Green Label "} {
		item, err := b.NewItem(models.ItemInput{ProductName: "Paper", Quantity: 1, IsGreen: true, GreenLabel: models.GreenLabel(spelling)}, requester)
		require.NoError(t, err, spelling)
		assert.Equal(t, models.LabelGreenLabel, item.GreenLabel, spelling)
	}

	_, err := b.NewItem(models.ItemInput{ProductName: "Paper", Quantity: 1, IsGreen: true, GreenLabel: "Blue Label"}, requester)
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
