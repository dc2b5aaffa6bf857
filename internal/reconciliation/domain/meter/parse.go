package meter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimestampLayout matches the inverter portal export.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// ParseRecord converts a raw export row into a cumulative reading.
func ParseRecord(rec RawRecord, layout string, loc *time.Location) (IntervalReading, error) {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	if loc == nil {
		loc = time.UTC
	}

	at, err := time.ParseInLocation(layout, strings.TrimSpace(rec.Timestamp), loc)
	if err != nil {
		return IntervalReading{}, fmt.Errorf("%w: row %d %q", ErrInvalidTimestamp, rec.Row, rec.Timestamp)
	}

	reading := IntervalReading{At: at}
	cells := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"yield", rec.Yield, &reading.Yield},
		{"export", rec.Export, &reading.Export},
		{"consumption", rec.Consumption, &reading.Consumption},
		{"import", rec.Import, &reading.Import},
	}
	for _, cell := range cells {
		value, err := ParseNumber(cell.value)
		if err != nil {
			return IntervalReading{}, fmt.Errorf("row %d %s: %w", rec.Row, cell.name, err)
		}
		*cell.dst = value
	}
	return reading, nil
}

// ParseNumber reads a localized number. Anything other than digits, sign and
// separators is dropped and a decimal comma is accepted. A blank cell is zero.
func ParseNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	numeric := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '.':
			return r
		case r == ',':
			return '.'
		default:
			return -1
		}
	}, text)

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return value, nil
}
