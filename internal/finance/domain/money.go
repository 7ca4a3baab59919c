package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxAmount is the first value that does not fit numeric(10,2).
var maxAmount = decimal.New(1, 8)

func validateAmount(amount decimal.Decimal) string {
	switch {
	case !amount.IsPositive():
		return "Amount must be positive."
	case !amount.Equal(amount.Round(2)):
		return "Amount must have at most 2 decimal places."
	case amount.GreaterThanOrEqual(maxAmount):
		return "Amount must be less than 100000000."
	}
	return ""
}

const dateOnlyLayout = "2006-01-02"

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. The
// result is in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
