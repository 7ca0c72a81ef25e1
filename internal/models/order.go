package models

import (
	"strings"
	"time"
)

// OrderStatus is the review state of a requested item.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusApproved OrderStatus = "APPROVED"
	StatusRejected OrderStatus = "REJECTED"
	StatusShipped  OrderStatus = "SHIPPED"
)

// GreenLabel classifies the sustainability certification of a green item.
type GreenLabel string

const (
	LabelGreenLabel      GreenLabel = "Green Label"
	LabelCarbonFootprint GreenLabel = "Carbon Footprint"
	LabelSCGGreenChoice  GreenLabel = "SCG Green Choice"
	LabelLEED            GreenLabel = "LEED Certified"
	LabelOther           GreenLabel = "Other"
)

// GreenLabels lists every accepted label in display order.
var GreenLabels = []GreenLabel{
	LabelGreenLabel,
	LabelCarbonFootprint,
	LabelSCGGreenChoice,
	LabelLEED,
	LabelOther,
}

// IsValid reports whether l is one of the known labels.
func (l GreenLabel) IsValid() bool {
	for _, known := range GreenLabels {
		if l == known {
			return true
		}
	}
	return false
}

// labelAliases maps spellings written by earlier clients onto known labels.
var labelAliases = map[string]GreenLabel{
	"Green Label (ฉลากเขียว)": LabelGreenLabel,
	"ฉลากเขียว":               LabelGreenLabel,
}

// ParseGreenLabel trims s and resolves known aliases. Unknown values are
// returned as-is so validation can reject them.
func ParseGreenLabel(s string) GreenLabel {
	s = strings.TrimSpace(s)
	if label, ok := labelAliases[s]; ok {
		return label
	}
	for _, known := range GreenLabels {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return GreenLabel(s)
}

// OrderItem represents a single requested line item.
type OrderItem struct {
	ID              string      `json:"id"`
	BillID          string      `json:"billId"`
	ProductID       string      `json:"productId,omitempty"`
	ProductName     string      `json:"productName"`
	Description     string      `json:"description,omitempty"`
	Quantity        int         `json:"quantity"`
	Unit            string      `json:"unit"`
	IsGreen         bool        `json:"isGreen"`
	GreenLabel      GreenLabel  `json:"greenLabel,omitempty"`
	ImageAttachment string      `json:"imageAttachment,omitempty"`
	RequestedAt     time.Time   `json:"requestedAt"`
	Status          OrderStatus `json:"status"`
	UserID          string      `json:"userId,omitempty"`
	UserName        string      `json:"userName"`
	Department      string      `json:"department"`
	FinalPrice      *float64    `json:"finalPrice,omitempty"` // nil until an admin prices the item
	AdminComment    *string     `json:"adminComment,omitempty"`
}

// Price returns the final price, or 0 when the item is not priced yet.
func (o OrderItem) Price() float64 {
	if o.FinalPrice == nil {
		return 0
	}
	return *o.FinalPrice
}

// ItemInput carries what a requester supplies for a new item.
type ItemInput struct {
	ProductID       string     `json:"productId"`
	ProductName     string     `json:"productName" validate:"required,max=200"`
	Description     string     `json:"description" validate:"omitempty,max=1000"`
	Quantity        int        `json:"quantity" validate:"gte=1"`
	Unit            string     `json:"unit" validate:"omitempty,max=50"`
	IsGreen         bool       `json:"isGreen"`
	GreenLabel      GreenLabel `json:"greenLabel" validate:"omitempty,greenlabel"`
	ImageAttachment string     `json:"imageAttachment"`
}

// OrderPatch is an admin update. Nil fields are left unchanged.
type OrderPatch struct {
	Status       *OrderStatus `json:"status,omitempty" validate:"omitempty,orderstatus"`
	FinalPrice   *float64     `json:"finalPrice,omitempty" validate:"omitempty,gte=0"`
	AdminComment *string      `json:"adminComment,omitempty" validate:"omitempty,max=1000"`
}

// Apply returns a copy of item with the non-nil patch fields set.
func (p OrderPatch) Apply(item OrderItem) OrderItem {
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.FinalPrice != nil {
		price := *p.FinalPrice
		item.FinalPrice = &price
	}
	if p.AdminComment != nil {
		comment := *p.AdminComment
		item.AdminComment = &comment
	}
	return item
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.FinalPrice == nil && p.AdminComment == nil
}
