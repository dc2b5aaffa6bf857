package history

import "errors"

var (
	// ErrInvalidPeriod is returned when an entry or query has a zero period.
	ErrInvalidPeriod = errors.New("history: invalid period")
	// ErrEntryExists is returned when appending a period that is already stored.
	ErrEntryExists = errors.New("history: entry already exists")
	// ErrNilLedger is returned when a series is requested without a ledger.
	ErrNilLedger = errors.New("history: nil ledger")
	// ErrNilSummary is returned when a series is requested without a summary.
	ErrNilSummary = errors.New("history: nil summary")
)
