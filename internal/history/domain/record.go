package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
)

// Record is the JSON document stored by file, redis and postgres ledgers.
type Record struct {
	Period            string  `json:"period"`
	Yield             float64 `json:"yield"`
	Consumption       float64 `json:"consumption"`
	ExportPriceGrid   float64 `json:"export_price_grid"`
	ImportGrid        float64 `json:"import_grid"`
	ImportSelf        float64 `json:"import_self"`
	ImportCostGrid    float64 `json:"import_cost_grid"`
	ImportCostSelf    float64 `json:"import_cost_self"`
	ExportGrid        float64 `json:"export_grid"`
	ExportSelf        float64 `json:"export_self"`
	ExportRevenueGrid float64 `json:"export_revenue_grid"`
	ExportRevenueSelf float64 `json:"export_revenue_self"`
	SelfConsumed      float64 `json:"self_consumed"`
	Savings           float64 `json:"savings"`
	SelfUsePercentage float64 `json:"self_use_percentage"`
	Estimated         bool    `json:"estimated,omitempty"`
}

// EncodeEntry marshals an entry to its JSON record.
func EncodeEntry(entry Entry) ([]byte, error) {
	t := entry.Total
	return json.Marshal(Record{
		Period:            entry.Key(),
		Yield:             t.Yield,
		Consumption:       t.Consumption,
		ExportPriceGrid:   t.ExportPriceGrid,
		ImportGrid:        t.ImportGrid,
		ImportSelf:        t.ImportSelf,
		ImportCostGrid:    t.ImportCostGrid,
		ImportCostSelf:    t.ImportCostSelf,
		ExportGrid:        t.ExportGrid,
		ExportSelf:        t.ExportSelf,
		ExportRevenueGrid: t.ExportRevenueGrid,
		ExportRevenueSelf: t.ExportRevenueSelf,
		SelfConsumed:      t.SelfConsumed,
		Savings:           t.Savings,
		SelfUsePercentage: t.SelfUsePercentage,
		Estimated:         t.Estimated,
	})
}

// DecodeEntry parses a JSON record. The month is read in loc.
func DecodeEntry(data []byte, loc *time.Location) (Entry, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Entry{}, fmt.Errorf("decode history record: %w", err)
	}
	period, err := ParsePeriodKey(r.Period, loc)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(period, statistic.Row{
		Yield:             r.Yield,
		Consumption:       r.Consumption,
		ExportPriceGrid:   r.ExportPriceGrid,
		ImportGrid:        r.ImportGrid,
		ImportSelf:        r.ImportSelf,
		ImportCostGrid:    r.ImportCostGrid,
		ImportCostSelf:    r.ImportCostSelf,
		ExportGrid:        r.ExportGrid,
		ExportSelf:        r.ExportSelf,
		ExportRevenueGrid: r.ExportRevenueGrid,
		ExportRevenueSelf: r.ExportRevenueSelf,
		SelfConsumed:      r.SelfConsumed,
		Savings:           r.Savings,
		SelfUsePercentage: r.SelfUsePercentage,
		Estimated:         r.Estimated,
	})
}

// ParsePeriodKey parses a YYYY-MM key in loc.
func ParsePeriodKey(key string, loc *time.Location) (time.Time, error) {
	period, err := statistic.ParseTimeKey(statistic.GranularityMonth, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	return period, nil
}
