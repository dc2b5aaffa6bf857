package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
	"github.com/Firestone82/SolaxStatistics/internal/observability/metrics"
	reconciliation "github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain"
	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
	"github.com/Firestone82/SolaxStatistics/internal/settlement/pricing"
)

// Native source cadences. Both sources stamp a sample at the end of the
// interval it covers.
const (
	gridCadence     = 15 * time.Minute
	inverterCadence = 5 * time.Minute

	// Grid samples are average kW over a quarter hour.
	gridEnergyScale = 0.25
)

// GridSource provides the grid meter quarter hour series of a month.
type GridSource interface {
	GridSeries(ctx context.Context, period time.Time) ([]reconciliation.GridReading, error)
}

// PriceSource provides the hourly market prices of a month.
type PriceSource interface {
	PriceSeries(ctx context.Context, period time.Time) ([]reconciliation.PricePoint, error)
}

// InverterSource provides the raw cumulative inverter rows of a month.
type InverterSource interface {
	InverterRecords(ctx context.Context, period time.Time) ([]meter.RawRecord, error)
}

// Exporter renders a report and returns the written artifact paths.
type Exporter interface {
	Export(ctx context.Context, report *Report) ([]string, error)
}

// Notifier delivers a finished report.
type Notifier interface {
	Notify(ctx context.Context, report *Report) error
}

// Report is the outcome of one run.
type Report struct {
	RunID       string
	Period      time.Time
	Currency    pricing.Currency
	GeneratedAt time.Time
	Summary     *statistic.Summary
	// Series holds earlier monthly totals followed by this month's total.
	Series    []statistic.Row
	Gaps      []reconciliation.Gap
	Invalid   int
	Midnight  int
	Estimated int
	Artifacts []string
}

// Sources groups the collaborators a run reads from.
type Sources struct {
	Grid     GridSource
	Prices   PriceSource
	Inverter InverterSource
}

// ReportService runs the monthly reconciliation for one period at a time.
type ReportService struct {
	sources    Sources
	ledger     history.Ledger
	reconciler *reconciliation.Reconciler
	aggregator *statistic.Aggregator
	closer     statistic.SelfExportCloser
	decoder    *meter.Decoder
	exporter   Exporter
	notifier   Notifier
	currency   pricing.Currency
	logger     *zap.Logger
	now        func() time.Time
	readOnly   bool
}

// Option configures the service.
type Option func(*ReportService)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ReportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDecoder overrides the inverter row decoder.
func WithDecoder(decoder *meter.Decoder) Option {
	return func(s *ReportService) {
		if decoder != nil {
			s.decoder = decoder
		}
	}
}

// WithExporter renders every successful report.
func WithExporter(exporter Exporter) Option {
	return func(s *ReportService) {
		if exporter != nil {
			s.exporter = exporter
		}
	}
}

// WithNotifier delivers every successful report.
func WithNotifier(notifier Notifier) Option {
	return func(s *ReportService) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithCurrency records the currency the reconciler prices in.
func WithCurrency(currency pricing.Currency) Option {
	return func(s *ReportService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReadOnlyHistory skips appending the month total to the ledger.
func WithReadOnlyHistory() Option {
	return func(s *ReportService) {
		s.readOnly = true
	}
}

// NewReportService constructs a ReportService.
func NewReportService(sources Sources, ledger history.Ledger, reconciler *reconciliation.Reconciler, aggregator *statistic.Aggregator, closer statistic.SelfExportCloser, opts ...Option) (*ReportService, error) {
	if sources.Grid == nil || sources.Prices == nil || sources.Inverter == nil {
		return nil, ErrNilSource
	}
	if ledger == nil {
		return nil, ErrNilLedger
	}
	if reconciler == nil {
		return nil, ErrNilReconciler
	}
	if aggregator == nil {
		return nil, ErrNilAggregator
	}
	if closer == nil {
		return nil, ErrNilCloser
	}
	s := &ReportService{
		sources:    sources,
		ledger:     ledger,
		reconciler: reconciler,
		aggregator: aggregator,
		closer:     closer,
		currency:   pricing.CZK,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoder == nil {
		s.decoder = meter.NewDecoder(meter.WithLogger(s.logger))
	}
	return s, nil
}

// Run reconciles and reports one month. A source failure aborts the run
// without a report; notification failures are logged only.
func (s *ReportService) Run(ctx context.Context, period time.Time) (*Report, error) {
	if period.IsZero() {
		return nil, ErrInvalidPeriod
	}
	started := time.Now()
	period = statistic.MonthStart(period)
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("period", history.PeriodKey(period)))

	report, err := s.run(ctx, logger, runID, period)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		logger.Error("report run failed, no report produced", zap.Error(err))
	}
	metrics.ObserveReportRun(result, time.Since(started))
	return report, err
}

func (s *ReportService) run(ctx context.Context, logger *zap.Logger, runID string, period time.Time) (*Report, error) {
	logger.Info("report run started")

	grid, err := fetch(ctx, "grid", period, s.sources.Grid.GridSeries)
	if err != nil {
		return nil, err
	}
	prices, err := fetch(ctx, "prices", period, s.sources.Prices.PriceSeries)
	if err != nil {
		return nil, err
	}
	records, err := fetch(ctx, "inverter", period, s.sources.Inverter.InverterRecords)
	if err != nil {
		return nil, err
	}

	decoded := s.decoder.DecodeRecords(records)
	metrics.AddInvalidSamples("unparsable", decoded.Invalid)
	metrics.AddInvalidSamples("midnight", decoded.Midnight)
	if decoded.Invalid > 0 {
		logger.Warn("skipped invalid inverter rows", zap.Int("invalid", decoded.Invalid))
	}

	gross := meter.ResampleHourly(decoded.Deltas, inverterCadence, 1)
	hourlyGrid := reconciliation.ResampleGridHourly(grid, gridCadence, gridEnergyScale)
	reconciled := s.reconciler.Reconcile(hourlyGrid, gross, prices)
	metrics.AddReconciled(len(reconciled.Rows), reconciled.Estimated)
	for _, gap := range reconciled.Gaps {
		metrics.IncReconcileGap(string(gap.Reason))
	}

	summary, err := statistic.NewSummary(period, reconciled.Rows, s.aggregator, s.closer)
	if err != nil {
		return nil, fmt.Errorf("report: summary: %w", err)
	}
	series, err := history.MonthlySeries(ctx, s.ledger, summary)
	if err != nil {
		return nil, fmt.Errorf("report: history: %w", err)
	}

	report := &Report{
		RunID:       runID,
		Period:      period,
		Currency:    s.currency,
		GeneratedAt: s.now(),
		Summary:     summary,
		Series:      series,
		Gaps:        reconciled.Gaps,
		Invalid:     decoded.Invalid,
		Midnight:    decoded.Midnight,
		Estimated:   reconciled.Estimated,
	}

	if s.exporter != nil {
		artifacts, err := s.exporter.Export(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("report: export: %w", err)
		}
		report.Artifacts = artifacts
	}

	if err := s.appendHistory(ctx, logger, summary); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			metrics.IncNotification(metrics.ResultError)
			logger.Warn("report notification failed", zap.Error(err))
		} else {
			metrics.IncNotification(metrics.ResultSuccess)
		}
	}

	logger.Info("report run finished",
		zap.Int("hours", len(summary.Hourly())),
		zap.Int("gaps", len(report.Gaps)),
		zap.Int("estimated", report.Estimated),
		zap.Int("history_months", len(series)-1),
		zap.Strings("artifacts", report.Artifacts))
	return report, nil
}

func (s *ReportService) appendHistory(ctx context.Context, logger *zap.Logger, summary *statistic.Summary) error {
	if s.readOnly {
		return nil
	}
	entry, err := history.NewEntry(summary.Period(), summary.Total())
	if err != nil {
		return err
	}
	err = s.ledger.Append(ctx, entry)
	switch {
	case err == nil:
		metrics.IncHistoryAppend(metrics.ResultSuccess)
		return nil
	case errors.Is(err, history.ErrEntryExists):
		metrics.IncHistoryAppend(metrics.ResultExisting)
		logger.Info("month total already stored, leaving it untouched")
		return nil
	default:
		metrics.IncHistoryAppend(metrics.ResultError)
		return fmt.Errorf("report: append history: %w", err)
	}
}

func fetch[T any](ctx context.Context, source string, period time.Time, load func(context.Context, time.Time) ([]T, error)) ([]T, error) {
	started := time.Now()
	items, err := load(ctx, period)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveSourceFetch(source, result, time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("report: fetch %s: %w", source, err)
	}
	return items, nil
}
