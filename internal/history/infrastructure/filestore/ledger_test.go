package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
)

func monthStart(m time.Month) time.Time {
	return time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestLedgerWritesMonthFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger, err := NewLedger(dir)
	require.NoError(t, err)

	for i, m := range []time.Month{time.June, time.April, time.May} {
		e, err := history.NewEntry(monthStart(m), statistic.Row{Consumption: float64(i + 1)})
		require.NoError(t, err)
		require.NoError(t, ledger.Append(ctx, e))
	}
	assert.FileExists(t, filepath.Join(dir, "summary_2025-05.json"))

	entries, err := ledger.EntriesBefore(ctx, monthStart(time.June))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, monthStart(time.April), entries[0].Period)
	assert.Equal(t, monthStart(time.May), entries[1].Period)
	assert.Equal(t, 3.0, entries[1].Total.Consumption)
}

func TestLedgerNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	ledger, err := NewLedger(t.TempDir())
	require.NoError(t, err)

	first, _ := history.NewEntry(monthStart(time.March), statistic.Row{Yield: 10})
	second, _ := history.NewEntry(monthStart(time.March), statistic.Row{Yield: 20})
	require.NoError(t, ledger.Append(ctx, first))
	assert.ErrorIs(t, ledger.Append(ctx, second), history.ErrEntryExists)

	entries, err := ledger.EntriesBefore(ctx, monthStart(time.April))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10.0, entries[0].Total.Yield)
}

func TestLedgerSkipsForeignAndCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger, err := NewLedger(dir)
	require.NoError(t, err)

	good, _ := history.NewEntry(monthStart(time.January), statistic.Row{Yield: 1})
	require.NoError(t, ledger.Append(ctx, good))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary_2025-02.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary_2025-03.xlsx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "summary_2024-12.json"), 0o755))

	entries, err := ledger.EntriesBefore(ctx, monthStart(time.December))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-01", entries[0].Key())
}
