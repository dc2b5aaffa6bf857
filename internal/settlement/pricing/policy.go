package pricing

import (
	"fmt"
	"time"
)

// Role is the direction of an energy flow.
type Role int

const (
	Import Role = iota
	Export
)

func (r Role) String() string {
	switch r {
	case Import:
		return "import"
	case Export:
		return "export"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Channel distinguishes utility-metered flow from behind-the-meter flow.
type Channel int

const (
	Grid Channel = iota
	Self
)

func (c Channel) String() string {
	switch c {
	case Grid:
		return "grid"
	case Self:
		return "self"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// NightWindow defines the local hours billed at the night rate: every hour
// before MorningEndHour and every hour in [EveningStartHour, EveningEndHour].
type NightWindow struct {
	MorningEndHour   int
	EveningStartHour int
	EveningEndHour   int
}

// DefaultNightWindow is 00-05 and 19-21.
var DefaultNightWindow = NightWindow{MorningEndHour: 6, EveningStartHour: 19, EveningEndHour: 21}

// Tariff holds unit prices in a single currency, per kWh.
type Tariff struct {
	// ImportOverride replaces the market import price when > 0.
	ImportOverride float64
	// ExportOverride replaces the market export price when > 0.
	ExportOverride float64
	// ExportFee is subtracted per exported unit.
	ExportFee float64

	SelfImportDay   float64
	SelfImportNight float64
	// SelfExportRate multiplies the net self surplus of a bucket.
	SelfExportRate float64
	// OverflowRate is charged on self import exceeding self export. 0 disables it.
	OverflowRate float64

	Night NightWindow
}

// Policy resolves unit prices and revenues as a pure function of the tariff
// and the reading timestamp.
type Policy struct {
	tariff Tariff
}

// NewPolicy validates the tariff and constructs a policy. The night window is
// used as given; callers wanting the usual hours set DefaultNightWindow.
func NewPolicy(tariff Tariff) (*Policy, error) {
	for name, value := range map[string]float64{
		"import override":   tariff.ImportOverride,
		"export override":   tariff.ExportOverride,
		"export fee":        tariff.ExportFee,
		"self import day":   tariff.SelfImportDay,
		"self import night": tariff.SelfImportNight,
		"self export rate":  tariff.SelfExportRate,
		"overflow rate":     tariff.OverflowRate,
	} {
		if value < 0 {
			return nil, fmt.Errorf("%w: %s %v", ErrNegativePrice, name, value)
		}
	}
	if tariff.SelfImportDay == 0 {
		return nil, ErrMissingDayPrice
	}
	if tariff.SelfImportNight == 0 {
		return nil, ErrMissingNightPrice
	}
	if err := tariff.Night.validate(); err != nil {
		return nil, err
	}
	return &Policy{tariff: tariff}, nil
}

func (w NightWindow) validate() error {
	if w.MorningEndHour < 0 || w.MorningEndHour > 24 {
		return fmt.Errorf("%w: morning end hour %d", ErrInvalidNightWindow, w.MorningEndHour)
	}
	if w.EveningStartHour < 0 || w.EveningEndHour > 23 || w.EveningStartHour > w.EveningEndHour {
		return fmt.Errorf("%w: evening hours %d-%d", ErrInvalidNightWindow, w.EveningStartHour, w.EveningEndHour)
	}
	return nil
}

// Tariff returns a copy of the configured tariff.
func (p *Policy) Tariff() Tariff {
	return p.tariff
}

// IsNight reports whether the local hour of at falls in the night window.
func (p *Policy) IsNight(at time.Time) bool {
	hour := at.Hour()
	w := p.tariff.Night
	return hour < w.MorningEndHour || (hour >= w.EveningStartHour && hour <= w.EveningEndHour)
}

// PriceFor returns the unit price for a flow at the given time. market is the
// live price of the interval. Self export has no input price and yields 0.
func (p *Policy) PriceFor(role Role, channel Channel, at time.Time, market float64) (float64, error) {
	switch role {
	case Import:
		if channel == Self {
			if p.IsNight(at) {
				return p.tariff.SelfImportNight, nil
			}
			return p.tariff.SelfImportDay, nil
		}
		return override(p.tariff.ImportOverride, market), nil
	case Export:
		if channel == Self {
			return 0, nil
		}
		return override(p.tariff.ExportOverride, market), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
}

func override(fixed, market float64) float64 {
	if fixed > 0 {
		return fixed
	}
	return market
}

// ExportRevenue is volume times unit price minus the per-unit export fee. The
// result may be negative.
func (p *Policy) ExportRevenue(volume, unitPrice float64) float64 {
	return volume*unitPrice - volume*p.tariff.ExportFee
}

// SelfExportRevenue monetizes a net self surplus. Non-positive net earns nothing.
func (p *Policy) SelfExportRevenue(net float64) float64 {
	if net <= 0 {
		return 0
	}
	return net * p.tariff.SelfExportRate
}

// OverflowSurcharge is the extra cost of self import not covered by self export.
func (p *Policy) OverflowSurcharge(importSelf, exportSelf float64) float64 {
	if p.tariff.OverflowRate == 0 || importSelf <= exportSelf {
		return 0
	}
	return (importSelf - exportSelf) * p.tariff.OverflowRate
}
