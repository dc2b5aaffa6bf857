package meter

import "errors"

var (
	// ErrInvalidTimestamp is returned when a record timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("meter: invalid timestamp")
	// ErrInvalidNumber is returned when a numeric cell cannot be read.
	ErrInvalidNumber = errors.New("meter: invalid number")
)
