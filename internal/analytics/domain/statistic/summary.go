package statistic

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Summary is the report of one month: the hourly rows, the closed daily
// buckets and the closed month total. It is immutable once built.
type Summary struct {
	period time.Time
	hourly []Row
	daily  []Row
	total  Row
}

// NewSummary builds the daily and total views of a month from its hourly rows.
// Rows outside the month are ignored. The total is folded from the unclosed
// daily buckets so the closing step runs once per view.
func NewSummary(period time.Time, hourly []Row, aggregator *Aggregator, closer SelfExportCloser) (*Summary, error) {
	if period.IsZero() {
		return nil, ErrInvalidPeriodStart
	}
	if aggregator == nil {
		return nil, ErrNilAggregator
	}
	if closer == nil {
		return nil, ErrNilCloser
	}
	period = MonthStart(period)

	inPeriod := lo.Filter(hourly, func(r Row, _ int) bool {
		return MonthStart(r.At).Equal(period)
	})
	slices.SortFunc(inPeriod, func(x, y Row) int { return x.At.Compare(y.At) })

	dailyRaw, err := aggregator.Aggregate(inPeriod, GranularityDay)
	if err != nil {
		return nil, fmt.Errorf("daily view: %w", err)
	}
	month, err := aggregator.Aggregate(dailyRaw, GranularityMonth)
	if err != nil {
		return nil, fmt.Errorf("month total: %w", err)
	}

	total := Row{At: period}
	if len(month) > 0 {
		total = month[0]
	}

	return &Summary{
		period: period,
		hourly: inPeriod,
		daily:  CloseSelfExport(dailyRaw, closer),
		total:  CloseSelfExport([]Row{total}, closer)[0],
	}, nil
}

// Period returns the first instant of the reported month.
func (s *Summary) Period() time.Time { return s.period }

// Hourly returns a copy of the hourly rows, ascending.
func (s *Summary) Hourly() []Row { return slices.Clone(s.hourly) }

// Daily returns a copy of the closed daily buckets, ascending.
func (s *Summary) Daily() []Row { return slices.Clone(s.daily) }

// Total returns the closed month total.
func (s *Summary) Total() Row { return s.total }

// Estimated reports whether any hourly row was floor-filled.
func (s *Summary) Estimated() bool { return s.total.Estimated }
