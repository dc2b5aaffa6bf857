package meter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.July, day, hour, minute, 0, 0, time.UTC)
}

func TestDecodeSubtractsAgainstOriginalCumulative(t *testing.T) {
	readings := []IntervalReading{
		{At: at(1, 0, 5), Yield: 1, Export: 0.5, Consumption: 2, Import: 1},
		{At: at(1, 0, 10), Yield: 3, Export: 1.5, Consumption: 5, Import: 2},
		{At: at(1, 0, 15), Yield: 6, Export: 2, Consumption: 9, Import: 4},
	}

	result := NewDecoder().Decode(readings)
	require.Len(t, result.Deltas, 3)

	assert.Equal(t, Delta{At: at(1, 0, 5), Yield: 1, Export: 0.5, Consumption: 2, Import: 1}, result.Deltas[0])
	assert.Equal(t, Delta{At: at(1, 0, 10), Yield: 2, Export: 1, Consumption: 3, Import: 1}, result.Deltas[1])
	assert.Equal(t, Delta{At: at(1, 0, 15), Yield: 3, Export: 0.5, Consumption: 4, Import: 2}, result.Deltas[2])
}

func TestDecodeResetsOnDayChange(t *testing.T) {
	readings := []IntervalReading{
		{At: at(1, 23, 50), Yield: 10, Consumption: 20},
		{At: at(1, 23, 55), Yield: 11, Consumption: 22},
		{At: at(2, 0, 5), Yield: 0.5, Consumption: 1},
		{At: at(2, 0, 10), Yield: 1, Consumption: 3},
	}

	result := NewDecoder().Decode(readings)
	require.Len(t, result.Deltas, 4)
	assert.InDelta(t, 1, result.Deltas[1].Yield, 1e-9)
	assert.InDelta(t, 0.5, result.Deltas[2].Yield, 1e-9)
	assert.InDelta(t, 1, result.Deltas[2].Consumption, 1e-9)
	assert.InDelta(t, 0.5, result.Deltas[3].Yield, 1e-9)
	assert.InDelta(t, 2, result.Deltas[3].Consumption, 1e-9)
}

func TestDecodeDiscardsMidnightReading(t *testing.T) {
	readings := []IntervalReading{
		{At: at(1, 23, 55), Yield: 11},
		{At: at(2, 0, 0), Yield: 12},
		{At: at(2, 0, 5), Yield: 0.25},
	}

	result := NewDecoder().Decode(readings)
	assert.Equal(t, 1, result.Midnight)
	require.Len(t, result.Deltas, 2)
	assert.Equal(t, at(2, 0, 5), result.Deltas[1].At)
	assert.InDelta(t, 0.25, result.Deltas[1].Yield, 1e-9)
}

func TestDecodeHonoursSegmentMarker(t *testing.T) {
	readings := []IntervalReading{
		{At: at(1, 10, 0), Import: 5},
		{At: at(1, 10, 5), Import: 1, SegmentStart: true},
		{At: at(1, 10, 10), Import: 2},
	}

	result := NewDecoder().Decode(readings)
	require.Len(t, result.Deltas, 3)
	assert.InDelta(t, 1, result.Deltas[1].Import, 1e-9)
	assert.InDelta(t, 1, result.Deltas[2].Import, 1e-9)
}

func TestDecodeKeepsNegativeDeltas(t *testing.T) {
	readings := []IntervalReading{
		{At: at(1, 12, 0), Export: 4},
		{At: at(1, 12, 5), Export: 3},
	}

	result := NewDecoder().Decode(readings)
	require.Len(t, result.Deltas, 2)
	assert.InDelta(t, -1, result.Deltas[1].Export, 1e-9)
}

func TestDecodeRecordsSkipsInvalidRows(t *testing.T) {
	records := []RawRecord{
		{Row: 3, Timestamp: "2025-07-01 00:05:00", Yield: "1,5", Export: "0", Consumption: "2", Import: "1"},
		{Row: 4, Timestamp: "not a time", Yield: "2", Export: "0", Consumption: "3", Import: "1"},
		{Row: 5, Timestamp: "2025-07-01 00:10:00", Yield: "n/a", Export: "0", Consumption: "3", Import: "1"},
		{Row: 6, Timestamp: "2025-07-01 00:15:00", Yield: "2.5", Export: "", Consumption: "4", Import: "1.5"},
	}

	result := NewDecoder().DecodeRecords(records)
	assert.Equal(t, 2, result.Invalid)
	require.Len(t, result.Deltas, 2)
	assert.InDelta(t, 1.5, result.Deltas[0].Yield, 1e-9)
	assert.InDelta(t, 1, result.Deltas[1].Yield, 1e-9)
	assert.InDelta(t, 2, result.Deltas[1].Consumption, 1e-9)
	assert.InDelta(t, 0.5, result.Deltas[1].Import, 1e-9)
}

func TestDecodeRecordsUsesLocation(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	records := []RawRecord{{Row: 3, Timestamp: "2025-07-01 08:00:00", Yield: "1"}}
	result := NewDecoder(WithLocation(prague)).DecodeRecords(records)
	require.Len(t, result.Deltas, 1)
	assert.Equal(t, prague, result.Deltas[0].At.Location())
	assert.Equal(t, 8, result.Deltas[0].At.Hour())
}
