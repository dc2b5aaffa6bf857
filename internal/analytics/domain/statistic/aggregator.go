package statistic

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Aggregator folds rows into coarser buckets with a per-column reduction table.
type Aggregator struct {
	logger     *zap.Logger
	reductions map[Field]Reduction
}

// AggregatorOption configures the aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets the aggregator logger.
func WithAggregatorLogger(logger *zap.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithReduction overrides the rule of a single column.
func WithReduction(field Field, reduction Reduction) AggregatorOption {
	return func(a *Aggregator) {
		a.reductions[field] = reduction
	}
}

// NewAggregator constructs an Aggregator with the default reductions.
func NewAggregator(opts ...AggregatorOption) (*Aggregator, error) {
	a := &Aggregator{
		logger:     zap.NewNop(),
		reductions: DefaultReductions(),
	}
	for _, opt := range opts {
		opt(a)
	}

	known := lo.SliceToMap(fields, func(f fieldRef) (Field, struct{}) { return f.field, struct{}{} })
	for field, reduction := range a.reductions {
		if _, ok := known[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if reduction < Sum || reduction > Spread {
			return nil, fmt.Errorf("%w: %s %s", ErrUnknownReduction, field, reduction)
		}
	}
	return a, nil
}

// Reduction returns the rule applied to a column.
func (a *Aggregator) Reduction(field Field) Reduction {
	return a.reductions[field]
}

// Aggregate groups rows by bucket start and reduces every group. The output
// is ascending by bucket start regardless of input order.
func (a *Aggregator) Aggregate(rows []Row, g Granularity) ([]Row, error) {
	if !g.IsValid() {
		return nil, ErrInvalidGranularity
	}

	groups := lo.GroupBy(rows, func(r Row) time.Time {
		start, _ := BucketStart(g, r.At)
		return start
	})
	starts := lo.Keys(groups)
	slices.SortFunc(starts, func(x, y time.Time) int { return x.Compare(y) })

	out := make([]Row, 0, len(starts))
	for _, start := range starts {
		out = append(out, a.reduce(start, groups[start]))
	}
	a.logger.Debug("aggregated rows",
		zap.String("granularity", string(g)),
		zap.Int("rows", len(rows)),
		zap.Int("buckets", len(out)))
	return out, nil
}

func (a *Aggregator) reduce(start time.Time, group []Row) Row {
	bucket := Row{At: start}
	values := make([]float64, len(group))
	for _, f := range fields {
		for i := range group {
			values[i] = *f.ref(&group[i])
		}
		*f.ref(&bucket) = a.reductions[f.field].apply(values)
	}
	bucket.Estimated = lo.SomeBy(group, func(r Row) bool { return r.Estimated })
	return bucket
}
