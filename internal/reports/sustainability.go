// Package reports derives green procurement metrics from an order set.
// Every function is pure; callers decide where the orders come from.
package reports

import (
	"sort"
	"strings"
	"time"

	"greenbuild/internal/models"
)

// DepartmentPlaceholder is the unselected value of the department picker.
const DepartmentPlaceholder = "โปรดเลือกแผนก/ฝ่าย"

// UnspecifiedDepartment groups orders without a department.
const UnspecifiedDepartment = "Unspecified"

var placeholderDepartments = map[string]bool{
	DepartmentPlaceholder:        true,
	"please select a department": true,
}

// YearMode selects how ByFiscalYear buckets orders.
type YearMode string

const (
	ModeCalendar YearMode = "CALENDAR"
	ModeFiscal   YearMode = "FISCAL"
)

// FiscalYearStart is the month a fiscal year begins, in the previous calendar year.
const FiscalYearStart = time.October

// GreenRatio returns the percentage of green items, 0 for no orders.
func GreenRatio(orders []models.OrderItem) float64 {
	if len(orders) == 0 {
		return 0
	}
	return float64(countGreen(orders)) / float64(len(orders)) * 100
}

// SpendRatio returns green spend as a percentage of total spend.
// Unpriced items count as 0; the result is 0 when nothing is priced.
func SpendRatio(orders []models.OrderItem) float64 {
	green, total := spend(orders)
	if total == 0 {
		return 0
	}
	return green / total * 100
}

func countGreen(orders []models.OrderItem) int {
	n := 0
	for _, o := range orders {
		if o.IsGreen {
			n++
		}
	}
	return n
}

func spend(orders []models.OrderItem) (green, total float64) {
	for _, o := range orders {
		p := o.Price()
		total += p
		if o.IsGreen {
			green += p
		}
	}
	return green, total
}

// DepartmentStat counts a department's green and total items.
type DepartmentStat struct {
	Department string `json:"department"`
	Green      int    `json:"green"`
	Total      int    `json:"total"`
}

// ByDepartment groups orders by department, skipping the picker placeholder.
// Results are ordered by green count descending, then total, then name.
func ByDepartment(orders []models.OrderItem) []DepartmentStat {
	index := make(map[string]int)
	stats := make([]DepartmentStat, 0)
	for _, o := range orders {
		dept := strings.TrimSpace(o.Department)
		if placeholderDepartments[strings.ToLower(dept)] || placeholderDepartments[dept] {
			continue
		}
		if dept == "" {
			dept = UnspecifiedDepartment
		}
		i, ok := index[dept]
		if !ok {
			i = len(stats)
			index[dept] = i
			stats = append(stats, DepartmentStat{Department: dept})
		}
		stats[i].Total++
		if o.IsGreen {
			stats[i].Green++
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Green != b.Green {
			return a.Green > b.Green
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Department < b.Department
	})
	return stats
}

// FiscalYear returns the fiscal year t falls in: October onwards belongs to
// the following year.
func FiscalYear(t time.Time) int {
	if t.Month() >= FiscalYearStart {
		return t.Year() + 1
	}
	return t.Year()
}

// ByFiscalYear keeps the orders requested in year under mode. Timestamps are
// read in loc; a nil loc uses each timestamp's own location.
func ByFiscalYear(orders []models.OrderItem, year int, mode YearMode, loc *time.Location) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(orders))
	for _, o := range orders {
		t := o.RequestedAt
		if loc != nil {
			t = t.In(loc)
		}
		y := t.Year()
		if mode == ModeFiscal {
			y = FiscalYear(t)
		}
		if y == year {
			out = append(out, o)
		}
	}
	return out
}
