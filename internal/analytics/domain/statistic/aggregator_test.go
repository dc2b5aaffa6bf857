package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hour(day, h int) time.Time {
	return time.Date(2025, time.April, day, h, 0, 0, 0, time.UTC)
}

func sampleRow(at time.Time, yield, consumption, pct float64) Row {
	return Row{
		At:                at,
		Yield:             yield,
		Consumption:       consumption,
		ExportPriceGrid:   1.75,
		ImportGrid:        0.5,
		ImportSelf:        0.25,
		ImportCostGrid:    2,
		ImportCostSelf:    0.5,
		ExportGrid:        1,
		ExportSelf:        0.5,
		ExportRevenueGrid: 1.5,
		SelfConsumed:      consumption - 0.75,
		Savings:           1,
		SelfUsePercentage: pct,
	}
}

func newAggregator(t *testing.T, opts ...AggregatorOption) *Aggregator {
	t.Helper()
	a, err := NewAggregator(opts...)
	require.NoError(t, err)
	return a
}

func TestAggregateSumsAveragesAndZeroes(t *testing.T) {
	a := newAggregator(t)
	rows := []Row{
		sampleRow(hour(1, 10), 2, 4, 50),
		sampleRow(hour(1, 11), 4, 8, 100),
	}

	daily, err := a.Aggregate(rows, GranularityDay)
	require.NoError(t, err)
	require.Len(t, daily, 1)

	day := daily[0]
	assert.Equal(t, hour(1, 0), day.At)
	assert.Equal(t, 6.0, day.Yield)
	assert.Equal(t, 12.0, day.Consumption)
	assert.Equal(t, 1.0, day.ImportGrid)
	assert.Equal(t, 4.0, day.ImportCostGrid)
	assert.Equal(t, 3.0, day.ExportRevenueGrid)
	assert.Equal(t, 75.0, day.SelfUsePercentage)
	assert.Zero(t, day.ExportPriceGrid)
	assert.False(t, day.Estimated)
}

func TestAggregateOrdersBucketsAscending(t *testing.T) {
	a := newAggregator(t)
	rows := []Row{
		sampleRow(hour(3, 5), 1, 1, 10),
		sampleRow(hour(1, 5), 1, 1, 10),
		sampleRow(hour(2, 5), 1, 1, 10),
		sampleRow(hour(1, 23), 1, 1, 10),
	}

	daily, err := a.Aggregate(rows, GranularityDay)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, hour(1, 0), daily[0].At)
	assert.Equal(t, hour(2, 0), daily[1].At)
	assert.Equal(t, hour(3, 0), daily[2].At)
	assert.Equal(t, 2.0, daily[0].Yield)
}

func TestAggregateHourIsIdempotent(t *testing.T) {
	a := newAggregator(t)
	rows := []Row{
		sampleRow(hour(1, 1), 1, 2, 40),
		sampleRow(hour(1, 2), 3, 1, 90),
		sampleRow(hour(2, 1), 0, 0, 100),
	}

	once, err := a.Aggregate(rows, GranularityHour)
	require.NoError(t, err)
	twice, err := a.Aggregate(once, GranularityHour)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestAggregateHourKeepsRepeatedDSTHourApart(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	// 00:00Z is 02:00 CEST and 01:00Z is 02:00 CET on 2025-10-26.
	first := time.Date(2025, time.October, 26, 0, 0, 0, 0, time.UTC).In(prague)
	second := time.Date(2025, time.October, 26, 1, 0, 0, 0, time.UTC).In(prague)
	require.Equal(t, first.Hour(), second.Hour())

	a := newAggregator(t)
	rows := []Row{sampleRow(first, 1, 2, 50), sampleRow(second, 2, 2, 50)}

	hourly, err := a.Aggregate(rows, GranularityHour)
	require.NoError(t, err)
	require.Len(t, hourly, 2)
	assert.True(t, hourly[0].At.Equal(first))
	assert.True(t, hourly[1].At.Equal(second))
	assert.Equal(t, 1.0, hourly[0].Yield)
	assert.Equal(t, 2.0, hourly[1].Yield)

	again, err := a.Aggregate(hourly, GranularityHour)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	daily, err := a.Aggregate(rows, GranularityDay)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, 3.0, daily[0].Yield)
	assert.True(t, daily[0].At.Equal(time.Date(2025, time.October, 26, 0, 0, 0, 0, prague)))
}

func TestAggregateDayThenMonthMatchesDirectMonth(t *testing.T) {
	a := newAggregator(t)
	var rows []Row
	for day := 1; day <= 3; day++ {
		for h := 0; h < 24; h += 6 {
			rows = append(rows, sampleRow(hour(day, h), float64(h)/2, float64(day), 25))
		}
	}

	hourly, err := a.Aggregate(rows, GranularityHour)
	require.NoError(t, err)
	daily, err := a.Aggregate(hourly, GranularityDay)
	require.NoError(t, err)
	viaDaily, err := a.Aggregate(daily, GranularityMonth)
	require.NoError(t, err)
	direct, err := a.Aggregate(hourly, GranularityMonth)
	require.NoError(t, err)

	require.Len(t, viaDaily, 1)
	require.Len(t, direct, 1)
	for _, field := range Fields() {
		if a.Reduction(field) != Sum {
			continue
		}
		want, err := direct[0].Value(field)
		require.NoError(t, err)
		got, err := viaDaily[0].Value(field)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, string(field))
	}
}

func TestAggregateYearAndEstimated(t *testing.T) {
	a := newAggregator(t)
	estimated := sampleRow(time.Date(2025, time.June, 3, 4, 0, 0, 0, time.UTC), 1, 1, 100)
	estimated.Estimated = true
	rows := []Row{
		sampleRow(time.Date(2025, time.January, 3, 4, 0, 0, 0, time.UTC), 1, 1, 100),
		estimated,
		sampleRow(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC), 1, 1, 100),
	}

	years, err := a.Aggregate(rows, GranularityYear)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2024, years[0].At.Year())
	assert.False(t, years[0].Estimated)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), years[1].At)
	assert.True(t, years[1].Estimated)
}

func TestAggregateSpreadOverride(t *testing.T) {
	a := newAggregator(t, WithReduction(FieldExportPriceGrid, Spread))
	rows := []Row{sampleRow(hour(1, 1), 1, 1, 1), sampleRow(hour(1, 2), 1, 1, 1)}
	rows[0].ExportPriceGrid = 1.25
	rows[1].ExportPriceGrid = 3.5

	daily, err := a.Aggregate(rows, GranularityDay)
	require.NoError(t, err)
	assert.Equal(t, 2.25, daily[0].ExportPriceGrid)
}

func TestAggregatorValidation(t *testing.T) {
	_, err := NewAggregator(WithReduction(Field("bogus"), Sum))
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = NewAggregator(WithReduction(FieldYield, Reduction(42)))
	assert.ErrorIs(t, err, ErrUnknownReduction)

	a := newAggregator(t)
	_, err = a.Aggregate(nil, Granularity("WEEK"))
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	empty, err := a.Aggregate(nil, GranularityDay)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
