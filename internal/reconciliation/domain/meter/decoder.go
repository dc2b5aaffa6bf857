package meter

import (
	"time"

	"go.uber.org/zap"
)

// DecodeResult holds the interval deltas and the number of rows dropped.
type DecodeResult struct {
	Deltas   []Delta
	Invalid  int
	Midnight int
}

// Decoder turns cumulative day counters into interval deltas.
// Negative deltas are passed through; clamping happens during reconciliation.
type Decoder struct {
	logger *zap.Logger
	layout string
	loc    *time.Location
}

// DecoderOption configures the decoder.
type DecoderOption func(*Decoder)

// WithLogger sets the decoder logger.
func WithLogger(logger *zap.Logger) DecoderOption {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTimestampLayout overrides the raw record timestamp layout.
func WithTimestampLayout(layout string) DecoderOption {
	return func(d *Decoder) {
		if layout != "" {
			d.layout = layout
		}
	}
}

// WithLocation sets the zone raw timestamps are interpreted in.
func WithLocation(loc *time.Location) DecoderOption {
	return func(d *Decoder) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// NewDecoder constructs a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		logger: zap.NewNop(),
		layout: DefaultTimestampLayout,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeRecords parses raw rows and decodes them. Unparsable rows are
// skipped and counted as invalid.
func (d *Decoder) DecodeRecords(records []RawRecord) DecodeResult {
	readings := make([]IntervalReading, 0, len(records))
	invalid := 0
	for _, rec := range records {
		reading, err := ParseRecord(rec, d.layout, d.loc)
		if err != nil {
			invalid++
			d.logger.Warn("skipping invalid inverter row", zap.Int("row", rec.Row), zap.Error(err))
			continue
		}
		readings = append(readings, reading)
	}

	result := d.Decode(readings)
	result.Invalid += invalid
	return result
}

// Decode produces one delta per reading, in input order. The first reading of
// a day segment is emitted as is, since the counters start from zero.
func (d *Decoder) Decode(readings []IntervalReading) DecodeResult {
	result := DecodeResult{Deltas: make([]Delta, 0, len(readings))}

	var previous *IntervalReading
	var previousAt time.Time
	for _, reading := range readings {
		if isMidnight(reading.At) {
			result.Midnight++
			d.logger.Debug("skipping midnight reading", zap.Time("at", reading.At))
			continue
		}

		if reading.SegmentStart || (!previousAt.IsZero() && !sameDay(previousAt, reading.At)) {
			if previous != nil {
				d.logger.Debug("day segment changed, resetting counters",
					zap.Time("from", previousAt), zap.Time("to", reading.At))
			}
			previous = nil
		}
		previousAt = reading.At

		var delta Delta
		if previous == nil {
			delta = reading.asDelta()
		} else {
			delta = reading.minus(*previous)
		}

		snapshot := reading
		previous = &snapshot
		result.Deltas = append(result.Deltas, delta)
	}
	return result
}
