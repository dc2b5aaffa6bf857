package statistic

import (
	"strings"
	"time"
)

// Granularity is the time resolution of a bucket.
type Granularity string

const (
	GranularityHour  Granularity = "HOUR"
	GranularityDay   Granularity = "DAY"
	GranularityMonth Granularity = "MONTH"
	GranularityYear  Granularity = "YEAR"
)

// IsValid reports whether the granularity is supported.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityHour, GranularityDay, GranularityMonth, GranularityYear:
		return true
	default:
		return false
	}
}

// ParseGranularity accepts the granularity name in any case.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToUpper(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", ErrInvalidGranularity
	}
	return g, nil
}

// BucketStart normalizes t to the start of its bucket in t's location.
// Hours are truncated in absolute time so the repeated hour of a daylight
// saving change stays two buckets; zone offsets are whole hours.
func BucketStart(g Granularity, t time.Time) (time.Time, error) {
	switch g {
	case GranularityHour:
		return t.Truncate(time.Hour), nil
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()), nil
	case GranularityYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, ErrInvalidGranularity
	}
}

// MonthStart returns the first instant of t's month.
func MonthStart(t time.Time) time.Time {
	start, _ := BucketStart(GranularityMonth, t)
	return start
}
