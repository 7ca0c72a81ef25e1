package reports

import "greenbuild/internal/models"

// Summary is the headline block of the dashboards.
type Summary struct {
	TotalCount  int              `json:"totalCount"`
	GreenCount  int              `json:"greenCount"`
	GreenRatio  float64          `json:"greenRatio"`
	TotalSpend  float64          `json:"totalSpend"`
	GreenSpend  float64          `json:"greenSpend"`
	SpendRatio  float64          `json:"spendRatio"`
	Tier        Tier             `json:"tier"`
	Departments []DepartmentStat `json:"departments,omitempty"`
}

// Summarize computes the headline figures for orders.
func Summarize(orders []models.OrderItem) Summary {
	green, total := spend(orders)
	ratio := GreenRatio(orders)
	return Summary{
		TotalCount: len(orders),
		GreenCount: countGreen(orders),
		GreenRatio: ratio,
		TotalSpend: total,
		GreenSpend: green,
		SpendRatio: SpendRatio(orders),
		Tier:       TierFor(ratio),
	}
}

// Report is a period summary with its departmental breakdown.
type Report struct {
	Year int      `json:"year"`
	Mode YearMode `json:"mode"`
	Summary
}

// BuildReport filters orders to the period and summarizes them.
func BuildReport(orders []models.OrderItem, year int, mode YearMode, opts ...Option) Report {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	period := ByFiscalYear(orders, year, mode, o.loc)
	summary := Summarize(period)
	summary.Departments = ByDepartment(period)
	return Report{Year: year, Mode: mode, Summary: summary}
}
