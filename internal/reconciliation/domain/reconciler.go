package reconciliation

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
	"github.com/Firestone82/SolaxStatistics/internal/settlement/pricing"
)

// TariffPolicy prices a single interval.
type TariffPolicy interface {
	PriceFor(role pricing.Role, channel pricing.Channel, at time.Time, market float64) (float64, error)
	ExportRevenue(volume, unitPrice float64) float64
}

// GapReason explains why an interval was dropped.
type GapReason string

const (
	GapMissingPrice GapReason = "missing_price"
	GapMissingGross GapReason = "missing_gross"
	GapStaleGross   GapReason = "stale_gross"
	GapPricing      GapReason = "pricing_error"
)

// Gap is a grid interval that could not be reconciled.
type Gap struct {
	At     time.Time
	Reason GapReason
}

// Result is the outcome of one reconciliation. Rows are ascending by time.
type Result struct {
	Rows []statistic.Row
	Gaps []Gap
	// Estimated counts rows built from a floor-filled gross reading.
	Estimated int
}

// Reconciler merges grid exchange, gross inverter and market price series
// into one row per grid interval.
type Reconciler struct {
	policy     TariffPolicy
	logger     *zap.Logger
	currency   pricing.Currency
	cutover    time.Time
	maxFillGap time.Duration
	loc        *time.Location
}

// Option configures the reconciler.
type Option func(*Reconciler)

// WithLogger sets the reconciler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCurrency selects the market price column.
func WithCurrency(currency pricing.Currency) Option {
	return func(r *Reconciler) {
		r.currency = currency
	}
}

// WithExportCutover sets the first instant grid export was possible. Zero
// disables the pre-cutover rule.
func WithExportCutover(cutover time.Time) Option {
	return func(r *Reconciler) {
		r.cutover = cutover
	}
}

// WithMaxFillGap bounds how old a floor-filled gross reading may be. Zero
// means unbounded.
func WithMaxFillGap(gap time.Duration) Option {
	return func(r *Reconciler) {
		r.maxFillGap = gap
	}
}

// WithLocation sets the zone used for the day/night tariff.
func WithLocation(loc *time.Location) Option {
	return func(r *Reconciler) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewReconciler constructs a Reconciler.
func NewReconciler(policy TariffPolicy, opts ...Option) (*Reconciler, error) {
	if policy == nil {
		return nil, ErrNilPolicy
	}
	r := &Reconciler{
		policy:   policy,
		logger:   zap.NewNop(),
		currency: pricing.CZK,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.currency != pricing.CZK && r.currency != pricing.EUR {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, r.currency)
	}
	if r.maxFillGap < 0 {
		return nil, ErrNegativeFillGap
	}
	return r, nil
}

// Reconcile builds a row for every grid reading that has a price and a gross
// reading. Incomplete intervals are dropped and reported as gaps; the call
// never fails.
func (r *Reconciler) Reconcile(grid []GridReading, gross []meter.Delta, prices []PricePoint) Result {
	grid = slices.Clone(grid)
	slices.SortStableFunc(grid, func(a, b GridReading) int { return a.At.Compare(b.At) })
	gross = slices.Clone(gross)
	slices.SortStableFunc(gross, func(a, b meter.Delta) int { return a.At.Compare(b.At) })

	priceByHour := make(map[int64]PricePoint, len(prices))
	for _, p := range prices {
		priceByHour[hourKey(p.At)] = p
	}

	result := Result{Rows: make([]statistic.Row, 0, len(grid))}
	for _, g := range grid {
		price, ok := priceByHour[hourKey(g.At)]
		if !ok {
			r.gap(&result, g.At, GapMissingPrice)
			continue
		}

		reading, estimated, reason := r.lookupGross(gross, g.At)
		if reason != "" {
			r.gap(&result, g.At, reason)
			continue
		}

		row, err := r.row(g, reading, price.In(r.currency))
		if err != nil {
			r.logger.Error("pricing interval failed", zap.Time("at", g.At), zap.Error(err))
			r.gap(&result, g.At, GapPricing)
			continue
		}
		row.Estimated = estimated
		if estimated {
			result.Estimated++
		}
		result.Rows = append(result.Rows, row)
	}

	r.logger.Debug("reconciled intervals",
		zap.Int("grid", len(grid)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("gaps", len(result.Gaps)),
		zap.Int("estimated", result.Estimated))
	return result
}

func (r *Reconciler) gap(result *Result, at time.Time, reason GapReason) {
	r.logger.Warn("dropping interval", zap.Time("at", at), zap.String("reason", string(reason)))
	result.Gaps = append(result.Gaps, Gap{At: at, Reason: reason})
}

// lookupGross returns the gross reading at exactly at, or else the latest
// earlier one flagged as estimated.
func (r *Reconciler) lookupGross(gross []meter.Delta, at time.Time) (meter.Delta, bool, GapReason) {
	i := sort.Search(len(gross), func(i int) bool { return gross[i].At.After(at) })
	if i == 0 {
		return meter.Delta{}, false, GapMissingGross
	}
	reading := gross[i-1]
	if reading.At.Equal(at) {
		return reading, false, ""
	}
	if r.maxFillGap > 0 && at.Sub(reading.At) > r.maxFillGap {
		return meter.Delta{}, false, GapStaleGross
	}
	return reading, true, ""
}

func (r *Reconciler) row(g GridReading, gross meter.Delta, market float64) (statistic.Row, error) {
	at := g.At
	if r.loc != nil {
		at = at.In(r.loc)
	}
	preCutover := !r.cutover.IsZero() && at.Before(r.cutover)

	row := statistic.Row{
		At:          at,
		Yield:       nonNegative(gross.Yield),
		Consumption: nonNegative(gross.Consumption),
	}
	if preCutover {
		row.ImportGrid = nonNegative(gross.Import)
		row.ExportGrid = nonNegative(gross.Export)
	} else {
		row.ImportGrid = nonNegative(g.Import)
		row.ExportGrid = nonNegative(g.Export)
	}
	row.ImportSelf = nonNegative(gross.Import - row.ImportGrid)
	row.ExportSelf = nonNegative(gross.Export - row.ExportGrid)

	importPrice, err := r.policy.PriceFor(pricing.Import, pricing.Grid, at, market)
	if err != nil {
		return statistic.Row{}, err
	}
	selfPrice, err := r.policy.PriceFor(pricing.Import, pricing.Self, at, market)
	if err != nil {
		return statistic.Row{}, err
	}
	exportPrice, err := r.policy.PriceFor(pricing.Export, pricing.Grid, at, market)
	if err != nil {
		return statistic.Row{}, err
	}

	row.ExportPriceGrid = exportPrice
	row.ImportCostSelf = row.ImportSelf * selfPrice
	if !preCutover {
		row.ImportCostGrid = row.ImportGrid * importPrice
		row.ExportRevenueGrid = r.policy.ExportRevenue(row.ExportGrid, exportPrice)
	}

	row.SelfConsumed = row.Consumption - row.ImportGrid - row.ImportSelf
	row.Savings = row.SelfConsumed * importPrice
	row.SelfUsePercentage = selfUsePercentage(row.SelfConsumed, row.Consumption)
	return row, nil
}

func selfUsePercentage(selfConsumed, consumption float64) float64 {
	if consumption == 0 {
		return 100
	}
	return math.Min(math.Max(selfConsumed/consumption*100, 0), 100)
}

func nonNegative(v float64) float64 {
	return math.Max(v, 0)
}

func hourKey(at time.Time) int64 {
	return at.Truncate(time.Hour).Unix()
}
