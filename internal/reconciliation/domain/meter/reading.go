package meter

import "time"

// IntervalReading is a cumulative inverter counter snapshot. Counters restart
// at the beginning of every day segment.
type IntervalReading struct {
	At          time.Time
	Yield       float64
	Export      float64
	Consumption float64
	Import      float64

	// SegmentStart forces a counter reset regardless of the calendar day.
	SegmentStart bool
}

// Delta is the energy measured within one interval, in kWh.
type Delta struct {
	At          time.Time
	Yield       float64
	Export      float64
	Consumption float64
	Import      float64
}

// RawRecord is an unparsed row of an inverter export.
type RawRecord struct {
	Row         int
	Timestamp   string
	Yield       string
	Export      string
	Consumption string
	Import      string
}

func (r IntervalReading) minus(prev IntervalReading) Delta {
	return Delta{
		At:          r.At,
		Yield:       r.Yield - prev.Yield,
		Export:      r.Export - prev.Export,
		Consumption: r.Consumption - prev.Consumption,
		Import:      r.Import - prev.Import,
	}
}

func (r IntervalReading) asDelta() Delta {
	return Delta{
		At:          r.At,
		Yield:       r.Yield,
		Export:      r.Export,
		Consumption: r.Consumption,
		Import:      r.Import,
	}
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
