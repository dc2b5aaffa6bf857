package statistic

import "time"

// Row is one reconciled interval or one bucket of intervals. At is the
// interval or bucket start. Energy is in kWh, money in the run currency.
type Row struct {
	At time.Time

	Yield           float64
	Consumption     float64
	ExportPriceGrid float64

	ImportGrid     float64
	ImportSelf     float64
	ImportCostGrid float64
	ImportCostSelf float64

	ExportGrid        float64
	ExportSelf        float64
	ExportRevenueGrid float64
	ExportRevenueSelf float64

	SelfConsumed      float64
	Savings           float64
	SelfUsePercentage float64

	// Estimated marks rows built from a floor-filled gross reading. A bucket
	// is estimated when any of its rows is.
	Estimated bool
}

// Field names a numeric column of Row.
type Field string

const (
	FieldYield             Field = "yield"
	FieldConsumption       Field = "consumption"
	FieldExportPriceGrid   Field = "export_price_grid"
	FieldImportGrid        Field = "import_grid"
	FieldImportSelf        Field = "import_self"
	FieldImportCostGrid    Field = "import_cost_grid"
	FieldImportCostSelf    Field = "import_cost_self"
	FieldExportGrid        Field = "export_grid"
	FieldExportSelf        Field = "export_self"
	FieldExportRevenueGrid Field = "export_revenue_grid"
	FieldExportRevenueSelf Field = "export_revenue_self"
	FieldSelfConsumed      Field = "self_consumed"
	FieldSavings           Field = "savings"
	FieldSelfUsePercentage Field = "self_use_percentage"
)

type fieldRef struct {
	field Field
	ref   func(*Row) *float64
}

// fields lists every numeric column in report order.
var fields = []fieldRef{
	{FieldYield, func(r *Row) *float64 { return &r.Yield }},
	{FieldConsumption, func(r *Row) *float64 { return &r.Consumption }},
	{FieldExportPriceGrid, func(r *Row) *float64 { return &r.ExportPriceGrid }},
	{FieldImportGrid, func(r *Row) *float64 { return &r.ImportGrid }},
	{FieldImportSelf, func(r *Row) *float64 { return &r.ImportSelf }},
	{FieldImportCostGrid, func(r *Row) *float64 { return &r.ImportCostGrid }},
	{FieldImportCostSelf, func(r *Row) *float64 { return &r.ImportCostSelf }},
	{FieldExportGrid, func(r *Row) *float64 { return &r.ExportGrid }},
	{FieldExportSelf, func(r *Row) *float64 { return &r.ExportSelf }},
	{FieldExportRevenueGrid, func(r *Row) *float64 { return &r.ExportRevenueGrid }},
	{FieldExportRevenueSelf, func(r *Row) *float64 { return &r.ExportRevenueSelf }},
	{FieldSelfConsumed, func(r *Row) *float64 { return &r.SelfConsumed }},
	{FieldSavings, func(r *Row) *float64 { return &r.Savings }},
	{FieldSelfUsePercentage, func(r *Row) *float64 { return &r.SelfUsePercentage }},
}

// Fields returns the numeric column names in report order.
func Fields() []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.field
	}
	return out
}

// Value returns the named column of r.
func (r Row) Value(field Field) (float64, error) {
	for _, f := range fields {
		if f.field == field {
			return *f.ref(&r), nil
		}
	}
	return 0, ErrUnknownField
}

// NetSelfExport is export_self minus import_self.
func (r Row) NetSelfExport() float64 {
	return r.ExportSelf - r.ImportSelf
}
