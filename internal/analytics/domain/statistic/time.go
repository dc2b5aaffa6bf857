package statistic

import "time"

// TimeKey is the printable and persisted form of a bucket start.
type TimeKey string

// NewTimeKey builds a TimeKey for the given granularity and bucket start.
func NewTimeKey(g Granularity, periodStart time.Time) (TimeKey, error) {
	if periodStart.IsZero() {
		return "", ErrInvalidPeriodStart
	}
	layout, err := TimeKeyLayout(g)
	if err != nil {
		return "", err
	}
	return TimeKey(periodStart.Format(layout)), nil
}

// ParseTimeKey reverses NewTimeKey in the given location.
func ParseTimeKey(g Granularity, key string, loc *time.Location) (time.Time, error) {
	layout, err := TimeKeyLayout(g)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layout, key, loc)
	if err != nil {
		return time.Time{}, ErrInvalidPeriodStart
	}
	return t, nil
}

// String returns the raw string for storage.
func (k TimeKey) String() string { return string(k) }

// TimeKeyLayout returns the time layout used for a granularity.
func TimeKeyLayout(g Granularity) (string, error) {
	switch g {
	case GranularityHour:
		return "2006-01-02 15:04", nil
	case GranularityDay:
		return "2006-01-02", nil
	case GranularityMonth:
		return "2006-01", nil
	case GranularityYear:
		return "2006", nil
	default:
		return "", ErrInvalidGranularity
	}
}
