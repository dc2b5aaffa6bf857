package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
	"github.com/Firestone82/SolaxStatistics/internal/history/infrastructure/memory"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func entry(t *testing.T, period time.Time, consumption float64) history.Entry {
	t.Helper()
	e, err := history.NewEntry(period, statistic.Row{Consumption: consumption})
	require.NoError(t, err)
	return e
}

func summaryFor(t *testing.T, period time.Time, consumption float64) *statistic.Summary {
	t.Helper()
	aggregator, err := statistic.NewAggregator()
	require.NoError(t, err)
	rows := []statistic.Row{{At: period.Add(time.Hour), Consumption: consumption}}
	summary, err := statistic.NewSummary(period, rows, aggregator, noClose{})
	require.NoError(t, err)
	return summary
}

type noClose struct{}

func (noClose) SelfExportRevenue(float64) float64          { return 0 }
func (noClose) OverflowSurcharge(float64, float64) float64 { return 0 }

func TestMonthlySeriesPrependsHistoryAscending(t *testing.T) {
	ledger := memory.NewLedger(
		entry(t, month(2025, time.May), 5),
		entry(t, month(2025, time.March), 3),
		entry(t, month(2025, time.July), 7),
		entry(t, month(2025, time.August), 8),
	)

	series, err := history.MonthlySeries(context.Background(), ledger, summaryFor(t, month(2025, time.July), 70))
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, month(2025, time.March), series[0].At)
	assert.Equal(t, month(2025, time.May), series[1].At)
	assert.Equal(t, month(2025, time.July), series[2].At)
	assert.Equal(t, 70.0, series[2].Consumption)
}

type leakyLedger struct{ entries []history.Entry }

func (l leakyLedger) EntriesBefore(context.Context, time.Time) ([]history.Entry, error) {
	return l.entries, nil
}

func (l leakyLedger) Append(context.Context, history.Entry) error { return nil }

func TestMonthlySeriesExcludesCurrentAndFuture(t *testing.T) {
	ledger := leakyLedger{entries: []history.Entry{
		entry(t, month(2025, time.June), 6),
		entry(t, month(2025, time.July), 7),
		entry(t, month(2025, time.September), 9),
		entry(t, month(2025, time.June), 66),
	}}

	series, err := history.MonthlySeries(context.Background(), ledger, summaryFor(t, month(2025, time.July), 70))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 6.0, series[0].Consumption)
	assert.Equal(t, 70.0, series[1].Consumption)
}

type failingLedger struct{ leakyLedger }

func (failingLedger) EntriesBefore(context.Context, time.Time) ([]history.Entry, error) {
	return nil, errors.New("boom")
}

func TestMonthlySeriesErrors(t *testing.T) {
	_, err := history.MonthlySeries(context.Background(), nil, summaryFor(t, month(2025, time.July), 1))
	assert.ErrorIs(t, err, history.ErrNilLedger)

	_, err = history.MonthlySeries(context.Background(), memory.NewLedger(), nil)
	assert.ErrorIs(t, err, history.ErrNilSummary)

	_, err = history.MonthlySeries(context.Background(), failingLedger{}, summaryFor(t, month(2025, time.July), 1))
	assert.EqualError(t, err, "boom")
}

func TestEntryRecordRoundTrip(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	period := time.Date(2025, time.March, 14, 9, 0, 0, 0, prague)

	e, err := history.NewEntry(period, statistic.Row{Yield: 120.5, ExportRevenueSelf: 3, Estimated: true})
	require.NoError(t, err)
	assert.Equal(t, "2025-03", e.Key())

	data, err := history.EncodeEntry(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"period":"2025-03"`)

	back, err := history.DecodeEntry(data, prague)
	require.NoError(t, err)
	assert.True(t, back.Period.Equal(e.Period))
	assert.Equal(t, 120.5, back.Total.Yield)
	assert.True(t, back.Total.Estimated)

	_, err = history.DecodeEntry([]byte(`{"period":"March"}`), prague)
	assert.ErrorIs(t, err, history.ErrInvalidPeriod)

	_, err = history.NewEntry(time.Time{}, statistic.Row{})
	assert.ErrorIs(t, err, history.ErrInvalidPeriod)
}
