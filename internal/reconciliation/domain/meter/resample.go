package meter

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// HourBucket returns the hour an end-stamped sample belongs to. A sample
// stamped 01:00 with a 15 minute cadence covers 00:45-01:00 and lands in 00:00.
// Truncation is in absolute time, so both 02:00 hours of an autumn daylight
// saving change are kept apart.
func HourBucket(at time.Time, stampOffset time.Duration) time.Time {
	return at.Add(-stampOffset).Truncate(time.Hour)
}

// ResampleHourly sums end-stamped deltas into hour buckets, multiplying every
// sum by scale. Output is ascending by hour.
func ResampleHourly(deltas []Delta, stampOffset time.Duration, scale float64) []Delta {
	if scale == 0 {
		scale = 1
	}
	groups := lo.GroupBy(deltas, func(d Delta) time.Time {
		return HourBucket(d.At, stampOffset)
	})

	hours := lo.Keys(groups)
	slices.SortFunc(hours, func(a, b time.Time) int { return a.Compare(b) })

	result := make([]Delta, 0, len(hours))
	for _, hour := range hours {
		sum := Delta{At: hour}
		for _, d := range groups[hour] {
			sum.Yield += d.Yield
			sum.Export += d.Export
			sum.Consumption += d.Consumption
			sum.Import += d.Import
		}
		sum.Yield *= scale
		sum.Export *= scale
		sum.Consumption *= scale
		sum.Import *= scale
		result = append(result, sum)
	}
	return result
}
