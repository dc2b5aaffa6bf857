package reconciliation

import (
	"time"

	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
	"github.com/Firestone82/SolaxStatistics/internal/settlement/pricing"
)

// GridReading is the utility-metered exchange of one interval, in kWh.
type GridReading struct {
	At     time.Time
	Import float64
	Export float64
}

// PricePoint is the market price of one hour, per kWh in both currencies.
type PricePoint struct {
	At  time.Time
	CZK float64
	EUR float64
}

// In returns the price in the given currency.
func (p PricePoint) In(currency pricing.Currency) float64 {
	if currency == pricing.EUR {
		return p.EUR
	}
	return p.CZK
}

// ResampleGridHourly sums end-stamped grid readings into hour buckets. Quarter
// hour average power readings use a 15 minute offset and a 0.25 scale.
func ResampleGridHourly(readings []GridReading, stampOffset time.Duration, scale float64) []GridReading {
	deltas := make([]meter.Delta, len(readings))
	for i, r := range readings {
		deltas[i] = meter.Delta{At: r.At, Import: r.Import, Export: r.Export}
	}

	hourly := meter.ResampleHourly(deltas, stampOffset, scale)
	out := make([]GridReading, len(hourly))
	for i, d := range hourly {
		out[i] = GridReading{At: d.At, Import: d.Import, Export: d.Export}
	}
	return out
}
