package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored documents carry prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount accepts user-formatted money strings such as "20,000" or " 12.50 ".
func ParseAmount(field, s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if clean == "" {
		return decimal.Zero, &ValidationError{Field: field, Message: "is required"}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "must be a number"}
	}
	return d, nil
}

// MaxID returns the largest id in ids, or 0.
func MaxID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max
}
