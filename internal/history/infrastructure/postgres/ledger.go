package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
)

const defaultHistoryTable = "history_entries"

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("history postgres: invalid table name")

// Table names are interpolated into queries, so only unquoted identifiers pass.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Ledger stores monthly totals in Postgres, one row per month.
type Ledger struct {
	db    *sql.DB
	table string
	loc   *time.Location
}

// Option configures the ledger.
type Option func(*Ledger)

// WithTable overrides the default table name.
func WithTable(table string) Option {
	return func(l *Ledger) {
		if table != "" {
			l.table = table
		}
	}
}

// WithLocation sets the zone month keys are read in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// NewLedger constructs a ledger.
func NewLedger(db *sql.DB, opts ...Option) (*Ledger, error) {
	if db == nil {
		return nil, errors.New("history postgres: nil db")
	}
	l := &Ledger{db: db, table: defaultHistoryTable, loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	if !tableNamePattern.MatchString(l.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, l.table)
	}
	return l, nil
}

// EnsureSchema creates the history table when missing.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	period_key TEXT PRIMARY KEY,
	total JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, l.table)
	_, err := l.db.ExecContext(ctx, query)
	return err
}

// EntriesBefore returns the months strictly before period, ascending.
func (l *Ledger) EntriesBefore(ctx context.Context, period time.Time) ([]history.Entry, error) {
	if period.IsZero() {
		return nil, history.ErrInvalidPeriod
	}

	query := fmt.Sprintf(`
SELECT total
FROM %s
WHERE period_key < $1
ORDER BY period_key ASC`, l.table)

	rows, err := l.db.QueryContext(ctx, query, history.PeriodKey(period))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []history.Entry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		entry, err := history.DecodeEntry(payload, l.loc)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Append inserts the month. An existing month is left untouched.
func (l *Ledger) Append(ctx context.Context, entry history.Entry) error {
	if entry.Period.IsZero() {
		return history.ErrInvalidPeriod
	}
	payload, err := history.EncodeEntry(entry)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (period_key, total)
VALUES ($1, $2)
ON CONFLICT (period_key) DO NOTHING`, l.table)

	res, err := l.db.ExecContext(ctx, query, entry.Key(), string(payload))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return history.ErrEntryExists
	}
	return nil
}
