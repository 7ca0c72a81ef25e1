package remote

import (
	"fmt"
	"strings"
	"time"

	"greenbuild/internal/models"

	"github.com/spf13/cast"
)

// Column aliases in priority order. The first present, non-empty column wins.
var (
	idColumns          = []string{"id", "Item ID"}
	billIDColumns      = []string{"billId", "Bill ID"}
	productIDColumns   = []string{"productId"}
	productNameColumns = []string{"productName", "name", "Product"}
	descriptionColumns = []string{"description", "Description"}
	quantityColumns    = []string{"quantity", "amount", "Qty"}
	unitColumns        = []string{"unit", "Unit"}
	greenLabelColumns  = []string{"greenLabel", "Label"}
	imageColumns       = []string{"imageAttachment", "imageUrl"}
	requestedAtColumns = []string{"requestedAt", "timestamp", "Date"}
	userNameColumns    = []string{"userName", "Name"}
	departmentColumns  = []string{"department", "Dept", "userId"}
	statusColumns      = []string{"status", "Status"}
	finalPriceColumns  = []string{"finalPrice", "Price"}
	commentColumns     = []string{"adminComment", "Comment"}
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// localLayouts carry no offset and are read in the store's location.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

func lookup(row map[string]interface{}, columns []string) (interface{}, bool) {
	for _, col := range columns {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func lookupString(row map[string]interface{}, columns []string) string {
	v, ok := lookup(row, columns)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// NormalizeRow maps a loosely shaped store row onto the canonical OrderItem,
// reading timestamps without an offset as UTC.
// Rows without an id or product name return *models.MalformedRowError.
func NormalizeRow(row map[string]interface{}) (models.OrderItem, error) {
	return NormalizeRowIn(row, time.UTC)
}

// NormalizeRowIn is NormalizeRow with timestamps lacking an offset read in loc.
// A row without a bill ID forms a bill of its own, keyed by its item ID.
func NormalizeRowIn(row map[string]interface{}, loc *time.Location) (models.OrderItem, error) {
	if loc == nil {
		loc = time.UTC
	}
	item := models.OrderItem{
		ID:              lookupString(row, idColumns),
		BillID:          lookupString(row, billIDColumns),
		ProductID:       lookupString(row, productIDColumns),
		ProductName:     lookupString(row, productNameColumns),
		Description:     lookupString(row, descriptionColumns),
		Unit:            lookupString(row, unitColumns),
		GreenLabel:      models.ParseGreenLabel(lookupString(row, greenLabelColumns)),
		ImageAttachment: lookupString(row, imageColumns),
		UserName:        lookupString(row, userNameColumns),
		Department:      lookupString(row, departmentColumns),
		Status:          models.OrderStatus(strings.ToUpper(lookupString(row, statusColumns))),
	}
	if item.ID == "" {
		return models.OrderItem{}, &models.MalformedRowError{Reason: "missing id"}
	}
	if item.ProductName == "" {
		return models.OrderItem{}, &models.MalformedRowError{Reason: fmt.Sprintf("row %s has no product name", item.ID)}
	}
	if item.BillID == "" {
		item.BillID = item.ID
	}
	// Rows written before department existed carried it in userId.
	if _, hasDept := lookup(row, departmentColumns[:2]); hasDept {
		item.UserID = lookupString(row, []string{"userId"})
	}
	if !item.Status.IsValid() {
		item.Status = models.StatusPending
	}

	if v, ok := lookup(row, quantityColumns); ok {
		qty, err := parseQuantity(v)
		if err != nil {
			return models.OrderItem{}, &models.MalformedRowError{Reason: fmt.Sprintf("row %s has invalid quantity %v", item.ID, v)}
		}
		item.Quantity = qty
	}

	item.IsGreen = parseGreen(row)
	if v, ok := lookup(row, requestedAtColumns); ok {
		item.RequestedAt = parseTime(v, loc)
	}
	if v, ok := lookup(row, finalPriceColumns); ok {
		if price, err := cast.ToFloat64E(v); err == nil {
			item.FinalPrice = &price
		}
	}
	if v, ok := lookup(row, commentColumns); ok {
		comment := cast.ToString(v)
		item.AdminComment = &comment
	}
	return item, nil
}

func parseGreen(row map[string]interface{}) bool {
	if v, ok := lookup(row, []string{"isGreen"}); ok {
		if s, isString := v.(string); isString {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "yes", "y", "1":
				return true
			}
			return false
		}
		return cast.ToBool(v)
	}
	if v, ok := lookup(row, []string{"category"}); ok {
		return strings.EqualFold(strings.TrimSpace(cast.ToString(v)), "green")
	}
	return false
}

// parseQuantity reads decimal quantities only; sheet cells such as "010"
// must not be taken as octal.
func parseQuantity(v interface{}) (int, error) {
	if str, isString := v.(string); isString {
		v = strings.TrimSpace(str)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseTime(v interface{}, loc *time.Location) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case float64, int64, int:
		// Spreadsheet exports sometimes hold unix milliseconds.
		return time.UnixMilli(cast.ToInt64(t)).UTC()
	}
	s := strings.TrimSpace(cast.ToString(v))
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// DenormalizeItem renders an item with the canonical column names.
func DenormalizeItem(item models.OrderItem) map[string]interface{} {
	row := map[string]interface{}{
		"id":          item.ID,
		"billId":      item.BillID,
		"productName": item.ProductName,
		"quantity":    item.Quantity,
		"unit":        item.Unit,
		"isGreen":     item.IsGreen,
		"status":      string(item.Status),
		"requestedAt": item.RequestedAt.UTC().Format(time.RFC3339Nano),
		"userName":    item.UserName,
		"department":  item.Department,
	}
	if item.ProductID != "" {
		row["productId"] = item.ProductID
	}
	if item.Description != "" {
		row["description"] = item.Description
	}
	if item.GreenLabel != "" {
		row["greenLabel"] = string(item.GreenLabel)
	}
	if item.ImageAttachment != "" {
		row["imageAttachment"] = item.ImageAttachment
	}
	if item.UserID != "" {
		row["userId"] = item.UserID
	}
	if item.FinalPrice != nil {
		row["finalPrice"] = *item.FinalPrice
	}
	if item.AdminComment != nil {
		row["adminComment"] = *item.AdminComment
	}
	return row
}

// DenormalizePatch renders the non-nil patch fields with canonical column names.
func DenormalizePatch(patch models.OrderPatch) map[string]interface{} {
	data := make(map[string]interface{}, 3)
	if patch.Status != nil {
		data["status"] = string(*patch.Status)
	}
	if patch.FinalPrice != nil {
		data["finalPrice"] = *patch.FinalPrice
	}
	if patch.AdminComment != nil {
		data["adminComment"] = *patch.AdminComment
	}
	return data
}
