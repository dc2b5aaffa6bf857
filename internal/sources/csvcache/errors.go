package csvcache

import "errors"

var (
	// ErrNotCached is returned when the month file is missing from the cache.
	ErrNotCached = errors.New("csvcache: month not cached")
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("csvcache: missing column")
)
