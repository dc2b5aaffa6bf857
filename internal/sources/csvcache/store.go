package csvcache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain"
	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
)

// TimestampLayout is the layout of cached timestamps.
const TimestampLayout = "2006-01-02 15:04"

const (
	gridDir  = "cez"
	priceDir = "ote"

	gridCadence = 15 * time.Minute
)

// Store reads month files cached by the acquisition jobs:
// cez/electricity_YYYY-MM.csv with quarter hour grid power and
// ote/prices_YYYY-MM.csv with hourly market prices per MWh.
type Store struct {
	dir     string
	loc     *time.Location
	logger  *zap.Logger
	cutover time.Time
}

// Option configures the store.
type Option func(*Store)

// WithLocation sets the zone cached timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExportCutover makes months before cutover without a grid file read as
// an all-zero quarter hour series, since no grid meter data exists for them.
func WithExportCutover(cutover time.Time) Option {
	return func(s *Store) {
		s.cutover = cutover
	}
}

// NewStore constructs a store rooted at dir.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("csvcache: empty directory")
	}
	s := &Store{dir: dir, loc: time.UTC, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GridPath returns the grid file of a month.
func (s *Store) GridPath(period time.Time) string {
	return filepath.Join(s.dir, gridDir, fmt.Sprintf("electricity_%s.csv", period.Format("2006-01")))
}

// PricePath returns the price file of a month.
func (s *Store) PricePath(period time.Time) string {
	return filepath.Join(s.dir, priceDir, fmt.Sprintf("prices_%s.csv", period.Format("2006-01")))
}

// GridSeries reads the quarter hour grid readings of a month. Values are
// average power in kW over the quarter hour ending at the timestamp.
func (s *Store) GridSeries(ctx context.Context, period time.Time) ([]reconciliation.GridReading, error) {
	path := s.GridPath(period)
	var readings []reconciliation.GridReading
	err := s.readFile(ctx, path, []string{"dateTime", "importMWh", "exportMWh"}, func(at time.Time, values []float64) {
		readings = append(readings, reconciliation.GridReading{At: at, Import: values[0], Export: values[1]})
	})
	if errors.Is(err, ErrNotCached) && !s.cutover.IsZero() && period.Before(s.cutover) {
		s.logger.Info("no grid data before export cutover, using empty series",
			zap.String("period", period.Format("2006-01")))
		return emptyGridSeries(period), nil
	}
	if err != nil {
		return nil, err
	}
	return readings, nil
}

// PriceSeries reads the hourly market prices of a month, converted to per kWh.
func (s *Store) PriceSeries(ctx context.Context, period time.Time) ([]reconciliation.PricePoint, error) {
	var prices []reconciliation.PricePoint
	err := s.readFile(ctx, s.PricePath(period), []string{"dateTime", "czkPriceMWh", "eurPriceMWh"}, func(at time.Time, values []float64) {
		prices = append(prices, reconciliation.PricePoint{At: at, CZK: values[0] / 1000, EUR: values[1] / 1000})
	})
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// readFile maps the named columns of every record. The first column must be
// the timestamp; the rest are numbers. Bad records are logged and skipped.
func (s *Store) readFile(ctx context.Context, path string, columns []string, emit func(time.Time, []float64)) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotCached, path)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("csvcache: read header %s: %w", path, err)
	}
	index := make([]int, len(columns))
	for i, name := range columns {
		index[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
				index[i] = j
				break
			}
		}
		if index[i] < 0 {
			return fmt.Errorf("%w: %s in %s", ErrMissingColumn, name, path)
		}
	}

	line := 1
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			skipped++
			s.logger.Warn("skipping malformed csv line", zap.String("path", path), zap.Int("line", line), zap.Error(err))
			continue
		}

		at, values, err := s.parseRecord(record, index)
		if err != nil {
			skipped++
			s.logger.Warn("skipping invalid csv record", zap.String("path", path), zap.Int("line", line), zap.Error(err))
			continue
		}
		emit(at, values)
	}

	s.logger.Debug("loaded cached month file",
		zap.String("path", path), zap.Int("lines", line-1), zap.Int("skipped", skipped))
	return nil
}

func (s *Store) parseRecord(record []string, index []int) (time.Time, []float64, error) {
	for _, i := range index {
		if i >= len(record) {
			return time.Time{}, nil, fmt.Errorf("short record: %d fields", len(record))
		}
	}
	at, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(record[index[0]]), s.loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: %q", meter.ErrInvalidTimestamp, record[index[0]])
	}
	values := make([]float64, 0, len(index)-1)
	for _, i := range index[1:] {
		v, err := meter.ParseNumber(record[i])
		if err != nil {
			return time.Time{}, nil, err
		}
		values = append(values, v)
	}
	return at, values, nil
}

// emptyGridSeries stamps a zero reading at the end of every quarter hour of
// the month, in the month's location.
func emptyGridSeries(period time.Time) []reconciliation.GridReading {
	start := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, period.Location())
	end := start.AddDate(0, 1, 0)
	var out []reconciliation.GridReading
	for at := start.Add(gridCadence); !at.After(end); at = at.Add(gridCadence) {
		out = append(out, reconciliation.GridReading{At: at})
	}
	return out
}
