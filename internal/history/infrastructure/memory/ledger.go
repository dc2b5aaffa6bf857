package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
)

// Ledger is an in-memory history ledger for tests and dry runs.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]history.Entry
}

// NewLedger constructs a ledger seeded with entries. Duplicate months keep
// the first entry.
func NewLedger(seed ...history.Entry) *Ledger {
	l := &Ledger{entries: make(map[string]history.Entry, len(seed))}
	for _, e := range seed {
		if _, ok := l.entries[e.Key()]; !ok {
			l.entries[e.Key()] = e
		}
	}
	return l
}

// EntriesBefore returns entries strictly before period, ascending.
func (l *Ledger) EntriesBefore(ctx context.Context, period time.Time) ([]history.Entry, error) {
	_ = ctx
	if period.IsZero() {
		return nil, history.ErrInvalidPeriod
	}
	cutoff := history.PeriodKey(period)

	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]history.Entry, 0, len(l.entries))
	for key, e := range l.entries {
		if key < cutoff {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b history.Entry) int { return a.Period.Compare(b.Period) })
	return result, nil
}

// Append stores a new month entry.
func (l *Ledger) Append(ctx context.Context, entry history.Entry) error {
	_ = ctx
	if entry.Period.IsZero() {
		return history.ErrInvalidPeriod
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[entry.Key()]; ok {
		return history.ErrEntryExists
	}
	l.entries[entry.Key()] = entry
	return nil
}

// Len returns the number of stored months.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
