package pricing

import "errors"

var (
	// ErrNegativePrice is returned when a configured price or fee is negative.
	ErrNegativePrice = errors.New("pricing: negative price")
	// ErrMissingDayPrice is returned when the self import day price is not set.
	ErrMissingDayPrice = errors.New("pricing: missing self import day price")
	// ErrMissingNightPrice is returned when the self import night price is not set.
	ErrMissingNightPrice = errors.New("pricing: missing self import night price")
	// ErrInvalidNightWindow is returned when the night boundary hours are out of range.
	ErrInvalidNightWindow = errors.New("pricing: invalid night window")
	// ErrUnknownRole is returned for a role outside import/export.
	ErrUnknownRole = errors.New("pricing: unknown role")
	// ErrUnknownCurrency is returned for a currency code other than CZK or EUR.
	ErrUnknownCurrency = errors.New("pricing: unknown currency")
)
