package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T, mutate func(*Tariff)) *Policy {
	t.Helper()
	tariff := Tariff{
		ExportFee:       0.5,
		SelfImportDay:   2.1,
		SelfImportNight: 1.1,
		SelfExportRate:  3.0,
		Night:           DefaultNightWindow,
	}
	if mutate != nil {
		mutate(&tariff)
	}
	policy, err := NewPolicy(tariff)
	require.NoError(t, err)
	return policy
}

func hourAt(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestSelfImportDayNightBoundaries(t *testing.T) {
	policy := testPolicy(t, nil)
	cases := []struct {
		at   time.Time
		want float64
	}{
		{hourAt(0, 0), 1.1},
		{hourAt(5, 59), 1.1},
		{hourAt(6, 0), 2.1},
		{hourAt(18, 59), 2.1},
		{hourAt(19, 0), 1.1},
		{hourAt(21, 0), 1.1},
		{hourAt(21, 45), 1.1},
		{hourAt(22, 0), 2.1},
		{hourAt(23, 30), 2.1},
	}
	for _, tc := range cases {
		price, err := policy.PriceFor(Import, Self, tc.at, 99)
		require.NoError(t, err)
		assert.Equal(t, tc.want, price, tc.at.Format("15:04"))
	}
}

func TestNightWindowUsesReadingLocation(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	policy := testPolicy(t, nil)

	// 04:30 UTC is 05:30 in Prague during winter time.
	at := time.Date(2025, time.January, 15, 4, 30, 0, 0, time.UTC).In(prague)
	assert.True(t, policy.IsNight(at))
	assert.False(t, policy.IsNight(at.Add(time.Hour)))
}

func TestZeroNightWindowIsKept(t *testing.T) {
	policy := testPolicy(t, func(tariff *Tariff) { tariff.Night = NightWindow{} })
	assert.Equal(t, NightWindow{}, policy.Tariff().Night)

	// Only hour 0 falls in an all-zero window.
	assert.True(t, policy.IsNight(hourAt(0, 30)))
	assert.False(t, policy.IsNight(hourAt(5, 0)))
	assert.False(t, policy.IsNight(hourAt(20, 0)))
}

func TestOverrideWinsOverMarket(t *testing.T) {
	policy := testPolicy(t, func(tariff *Tariff) { tariff.ImportOverride = 4.2 })

	price, err := policy.PriceFor(Import, Grid, hourAt(12, 0), 5)
	require.NoError(t, err)
	assert.Equal(t, 4.2, price)

	price, err = policy.PriceFor(Export, Grid, hourAt(12, 0), 1.7)
	require.NoError(t, err)
	assert.Equal(t, 1.7, price)

	price, err = policy.PriceFor(Export, Self, hourAt(12, 0), 1.7)
	require.NoError(t, err)
	assert.Zero(t, price)
}

func TestExportRevenueSubtractsFee(t *testing.T) {
	policy := testPolicy(t, nil)
	assert.InDelta(t, 10*2.0-10*0.5, policy.ExportRevenue(10, 2.0), 1e-9)
	assert.InDelta(t, -1.5, policy.ExportRevenue(5, 0.2), 1e-9)
}

func TestSelfExportRevenueAndOverflow(t *testing.T) {
	policy := testPolicy(t, func(tariff *Tariff) { tariff.OverflowRate = 4.5 })
	assert.InDelta(t, 6, policy.SelfExportRevenue(2), 1e-9)
	assert.Zero(t, policy.SelfExportRevenue(-2))
	assert.Zero(t, policy.SelfExportRevenue(0))

	assert.InDelta(t, 9, policy.OverflowSurcharge(5, 3), 1e-9)
	assert.Zero(t, policy.OverflowSurcharge(3, 5))

	disabled := testPolicy(t, nil)
	assert.Zero(t, disabled.OverflowSurcharge(5, 3))
}

func TestNewPolicyRejectsInvalidTariffs(t *testing.T) {
	cases := map[string]struct {
		tariff Tariff
		err    error
	}{
		"missing day":      {Tariff{SelfImportNight: 1}, ErrMissingDayPrice},
		"missing night":    {Tariff{SelfImportDay: 1}, ErrMissingNightPrice},
		"negative fee":     {Tariff{SelfImportDay: 1, SelfImportNight: 1, ExportFee: -1}, ErrNegativePrice},
		"inverted evening": {Tariff{SelfImportDay: 1, SelfImportNight: 1, Night: NightWindow{MorningEndHour: 6, EveningStartHour: 22, EveningEndHour: 20}}, ErrInvalidNightWindow},
	}
	for name, tc := range cases {
		_, err := NewPolicy(tc.tariff)
		assert.True(t, errors.Is(err, tc.err), "%s: %v", name, err)
	}
}

func TestUnknownRole(t *testing.T) {
	policy := testPolicy(t, nil)
	_, err := policy.PriceFor(Role(7), Grid, hourAt(1, 0), 1)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	_, err = ParseCurrency("USD")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}
