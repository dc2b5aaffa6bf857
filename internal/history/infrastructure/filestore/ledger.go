package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"go.uber.org/zap"

	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
)

var fileNamePattern = regexp.MustCompile(`^summary_(\d{4}-\d{2})\.json$`)

// Ledger stores one summary_YYYY-MM.json document per month in a directory.
type Ledger struct {
	dir    string
	loc    *time.Location
	logger *zap.Logger
}

// Option configures the ledger.
type Option func(*Ledger)

// WithLocation sets the zone month keys are read in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLedger creates dir if needed and returns a ledger rooted there.
func NewLedger(dir string, opts ...Option) (*Ledger, error) {
	if dir == "" {
		return nil, errors.New("history filestore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history filestore: %w", err)
	}
	l := &Ledger{dir: dir, loc: time.UTC, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the file a month is stored in.
func (l *Ledger) Path(period time.Time) string {
	return filepath.Join(l.dir, fmt.Sprintf("summary_%s.json", history.PeriodKey(period)))
}

// EntriesBefore reads every month file strictly before period. Unreadable
// files are logged and skipped.
func (l *Ledger) EntriesBefore(ctx context.Context, period time.Time) ([]history.Entry, error) {
	if period.IsZero() {
		return nil, history.ErrInvalidPeriod
	}
	cutoff := history.PeriodKey(period)

	files, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("history filestore: %w", err)
	}

	var result []history.Entry
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.IsDir() {
			continue
		}
		match := fileNamePattern.FindStringSubmatch(f.Name())
		if match == nil || match[1] >= cutoff {
			continue
		}

		path := filepath.Join(l.dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable history file", zap.String("path", path), zap.Error(err))
			continue
		}
		entry, err := history.DecodeEntry(data, l.loc)
		if err != nil {
			l.logger.Warn("skipping corrupt history file", zap.String("path", path), zap.Error(err))
			continue
		}
		if entry.Key() != match[1] {
			l.logger.Warn("history file period mismatch",
				zap.String("path", path), zap.String("period", entry.Key()))
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b history.Entry) int { return a.Period.Compare(b.Period) })
	return result, nil
}

// Append writes the month file. An existing file is never overwritten.
func (l *Ledger) Append(ctx context.Context, entry history.Entry) error {
	_ = ctx
	if entry.Period.IsZero() {
		return history.ErrInvalidPeriod
	}
	data, err := history.EncodeEntry(entry)
	if err != nil {
		return err
	}

	path := l.Path(entry.Period)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return history.ErrEntryExists
	}
	if err != nil {
		return fmt.Errorf("history filestore: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("history filestore: write %s: %w", path, err)
	}
	return f.Close()
}
