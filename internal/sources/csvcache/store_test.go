package csvcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGridSeriesReadsCachedMonth(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	period := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	writeFile(t, store.GridPath(period), "dateTime,importMWh,exportMWh\n"+
		"2025-07-01 00:15,1.2,0\n"+
		"2025-07-01 00:30,\"0,8\",0.4\n"+
		"garbage,1,1\n"+
		"2025-07-01 00:45,1,abc\n")

	readings, err := store.GridSeries(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 30, 0, 0, time.UTC), readings[1].At)
	assert.Equal(t, 0.8, readings[1].Import)
	assert.Equal(t, 0.4, readings[1].Export)
}

func TestPriceSeriesConvertsToKWh(t *testing.T) {
	dir := t.TempDir()
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	store, err := NewStore(dir, WithLocation(prague))
	require.NoError(t, err)
	period := time.Date(2025, time.July, 1, 0, 0, 0, 0, prague)

	writeFile(t, store.PricePath(period), "eurPriceMWh,dateTime,czkPriceMWh\n"+
		"100,2025-07-01 13:00,2500\n")

	prices, err := store.PriceSeries(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 13, prices[0].At.Hour())
	assert.Equal(t, prague, prices[0].At.Location())
	assert.Equal(t, 2.5, prices[0].CZK)
	assert.Equal(t, 0.1, prices[0].EUR)
}

func TestMissingFiles(t *testing.T) {
	store, err := NewStore(t.TempDir(), WithExportCutover(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = store.PriceSeries(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotCached)

	_, err = store.GridSeries(context.Background(), time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotCached)

	readings, err := store.GridSeries(context.Background(), time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, readings, 29*24*4)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 15, 0, 0, time.UTC), readings[0].At)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), readings[len(readings)-1].At)
	assert.Zero(t, readings[0].Import)
}

func TestMissingColumn(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	period := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, store.PricePath(period), "dateTime,czkPriceMWh\n2025-05-01 00:00,1\n")

	_, err = store.PriceSeries(context.Background(), period)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
