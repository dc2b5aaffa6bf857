package pricing

import (
	"fmt"
	"strings"
)

// Currency selects the price column a run is reconciled in.
type Currency string

const (
	CZK Currency = "CZK"
	EUR Currency = "EUR"
)

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CZK, EUR:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
}
