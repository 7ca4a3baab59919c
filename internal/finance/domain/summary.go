package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	UncategorizedName     = "Uncategorized"
	defaultMonthsInWindow = 5
	monthKeyLayout        = "2006-01"
)

type Summary struct {
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	NetTotal float64 `json:"netTotal"`
}

type CategoryBreakdown struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type MonthlyBreakdown struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Totals is a raw income/expense pair as summed by the database.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type MonthTotal struct {
	Month string
	Totals
}

// DateFilter bounds a breakdown. Nil ends are open.
type DateFilter struct {
	Start *time.Time
	End   *time.Time
}

type SummaryRepository interface {
	Totals(ctx context.Context, userID string) (Totals, error)
	TotalsByCategory(ctx context.Context, userID string, paymentType TransactionType, filter DateFilter) ([]CategoryTotal, error)
	TotalsByMonth(ctx context.Context, userID string, from, to time.Time) ([]MonthTotal, error)
}

// MonthWindow is the set of calendar months covered by a monthly breakdown.
type MonthWindow struct {
	From   time.Time
	To     time.Time
	Months []string
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// NewMonthWindow ends at the month of end (or now) and starts at the month of
// start, or four months before the end. To is exclusive: the first day of the
// month after the last one. A start after the end gives no months.
func NewMonthWindow(start, end *time.Time, now time.Time) MonthWindow {
	last := StartOfMonth(now)
	if end != nil {
		last = StartOfMonth(*end)
	}

	first := last.AddDate(0, -(defaultMonthsInWindow - 1), 0)
	if start != nil {
		first = StartOfMonth(*start)
	}

	window := MonthWindow{From: first, To: last.AddDate(0, 1, 0), Months: []string{}}
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		window.Months = append(window.Months, m.Format(monthKeyLayout))
	}
	return window
}

// Fill returns one entry per window month, zero where totals has none.
func (w MonthWindow) Fill(totals []MonthTotal) []MonthlyBreakdown {
	byMonth := make(map[string]Totals, len(totals))
	for _, t := range totals {
		byMonth[t.Month] = t.Totals
	}

	result := make([]MonthlyBreakdown, 0, len(w.Months))
	for _, month := range w.Months {
		t := byMonth[month]
		result = append(result, MonthlyBreakdown{
			Month:   month,
			Income:  t.Income.InexactFloat64(),
			Expense: t.Expense.InexactFloat64(),
		})
	}
	return result
}
