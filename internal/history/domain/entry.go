package history

import (
	"context"
	"time"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
)

// Entry is the persisted total of one completed month.
type Entry struct {
	Period time.Time
	Total  statistic.Row
}

// NewEntry normalizes the period to its month start.
func NewEntry(period time.Time, total statistic.Row) (Entry, error) {
	if period.IsZero() {
		return Entry{}, ErrInvalidPeriod
	}
	period = statistic.MonthStart(period)
	total.At = period
	return Entry{Period: period, Total: total}, nil
}

// Key is the month key the entry is stored under.
func (e Entry) Key() string {
	return PeriodKey(e.Period)
}

// PeriodKey formats a month as YYYY-MM.
func PeriodKey(period time.Time) string {
	key, _ := statistic.NewTimeKey(statistic.GranularityMonth, period)
	return key.String()
}

// Ledger is the append-only store of monthly totals.
type Ledger interface {
	// EntriesBefore returns the entries of months strictly before period,
	// ascending by month.
	EntriesBefore(ctx context.Context, period time.Time) ([]Entry, error)
	// Append stores a new entry. It returns ErrEntryExists when the month is
	// already present and leaves the stored entry untouched.
	Append(ctx context.Context, entry Entry) error
}
