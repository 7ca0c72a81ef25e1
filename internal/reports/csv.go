package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"greenbuild/internal/models"
)

// CSVHeader is the column order of the export.
var CSVHeader = []string{"Order ID", "Material", "Quantity", "Unit", "Is Green", "Label", "Price", "Date", "User", "Department"}

// WriteCSV writes one row per order. Fields holding commas, quotes or
// newlines are quoted.
func WriteCSV(w io.Writer, orders []models.OrderItem, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, order := range orders {
		if err := cw.Write(csvRecord(order, o.loc)); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", order.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(o models.OrderItem, loc *time.Location) []string {
	isGreen := "No"
	if o.IsGreen {
		isGreen = "Yes"
	}
	date := ""
	if !o.RequestedAt.IsZero() {
		t := o.RequestedAt
		if loc != nil {
			t = t.In(loc)
		}
		date = t.Format("2006-01-02")
	}
	return []string{
		o.ID,
		o.ProductName,
		strconv.Itoa(o.Quantity),
		orDash(o.Unit),
		isGreen,
		orDash(string(o.GreenLabel)),
		strconv.FormatFloat(o.Price(), 'f', -1, 64),
		date,
		o.UserName,
		o.Department,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
