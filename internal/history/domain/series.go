package history

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
)

// MonthlySeries returns the stored totals of earlier months followed by the
// current month total, ascending. History is never recomputed.
func MonthlySeries(ctx context.Context, ledger Ledger, summary *statistic.Summary) ([]statistic.Row, error) {
	if ledger == nil {
		return nil, ErrNilLedger
	}
	if summary == nil {
		return nil, ErrNilSummary
	}

	period := summary.Period()
	entries, err := ledger.EntriesBefore(ctx, period)
	if err != nil {
		return nil, err
	}

	prior := lo.Filter(entries, func(e Entry, _ int) bool { return e.Period.Before(period) })
	prior = lo.UniqBy(prior, func(e Entry) string { return e.Key() })
	slices.SortFunc(prior, func(a, b Entry) int { return a.Period.Compare(b.Period) })

	series := make([]statistic.Row, 0, len(prior)+1)
	for _, e := range prior {
		series = append(series, e.Total)
	}
	return append(series, summary.Total()), nil
}
