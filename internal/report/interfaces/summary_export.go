package interfaces

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Firestone82/SolaxStatistics/internal/analytics/domain/statistic"
	"github.com/Firestone82/SolaxStatistics/internal/report/application"
)

const (
	SheetSummary = "Summary"
	SheetHourly  = "Hourly"
	SheetDaily   = "Daily"
	SheetMonthly = "Monthly"
)

var errNilReport = errors.New("report export: nil report")

// BuildSummaryXLSX renders the summary sheet followed by one sheet per view.
func BuildSummaryXLSX(report *application.Report) ([]byte, error) {
	if report == nil || report.Summary == nil {
		return nil, errNilReport
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, err
	}

	total := report.Summary.Total()
	_ = f.SetCellValue(SheetSummary, "A1", "Monthly report")
	_ = f.SetCellValue(SheetSummary, "A3", "Month")
	_ = f.SetCellValue(SheetSummary, "B3", report.Period.Format("2006-01"))
	_ = f.SetCellValue(SheetSummary, "A4", "Currency")
	_ = f.SetCellValue(SheetSummary, "B4", string(report.Currency))
	_ = f.SetCellValue(SheetSummary, "A5", "Run")
	_ = f.SetCellValue(SheetSummary, "B5", report.RunID)
	_ = f.SetCellValue(SheetSummary, "A6", "Estimated")
	_ = f.SetCellValue(SheetSummary, "B6", total.Estimated)
	_ = f.SetCellValue(SheetSummary, "A7", "Dropped intervals")
	_ = f.SetCellValue(SheetSummary, "B7", len(report.Gaps))
	for i, field := range statistic.Fields() {
		row := i + 9
		value, _ := total.Value(field)
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), string(field))
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), value)
	}

	views := []struct {
		sheet  string
		layout string
		rows   []statistic.Row
	}{
		{SheetHourly, "2006-01-02 15:04", report.Summary.Hourly()},
		{SheetDaily, "2006-01-02", report.Summary.Daily()},
		{SheetMonthly, "2006-01", report.Series},
	}
	for _, view := range views {
		if _, err := f.NewSheet(view.sheet); err != nil {
			return nil, err
		}
		if err := writeRows(f, view.sheet, view.layout, view.rows); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet, layout string, rows []statistic.Row) error {
	fields := statistic.Fields()
	header := make([]any, 0, len(fields)+2)
	header = append(header, "timestamp")
	for _, field := range fields {
		header = append(header, string(field))
	}
	header = append(header, "estimated")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]any, 0, len(fields)+2)
		values = append(values, row.At.Format(layout))
		for _, field := range fields {
			v, _ := row.Value(field)
			values = append(values, v)
		}
		values = append(values, row.Estimated)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// BuildSummaryPDF renders a one page overview with the monthly total and the
// daily table.
func BuildSummaryPDF(report *application.Report) ([]byte, error) {
	if report == nil || report.Summary == nil {
		return nil, errNilReport
	}
	total := report.Summary.Total()
	currency := string(report.Currency)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "FVE Monthly Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", report.Period.Format("2006-01")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	if total.Estimated {
		pdf.Cell(0, 6, "Contains estimated intervals")
		pdf.Ln(5)
	}

	pdf.Ln(4)
	lines := []struct {
		label string
		value float64
	}{
		{"Yield (kWh)", total.Yield},
		{"Consumption (kWh)", total.Consumption},
		{"Import grid (kWh)", total.ImportGrid},
		{"Import self (kWh)", total.ImportSelf},
		{"Export grid (kWh)", total.ExportGrid},
		{"Export self (kWh)", total.ExportSelf},
		{fmt.Sprintf("Import cost (%s)", currency), total.ImportCostGrid + total.ImportCostSelf},
		{fmt.Sprintf("Export revenue (%s)", currency), total.ExportRevenueGrid + total.ExportRevenueSelf},
		{fmt.Sprintf("Savings (%s)", currency), total.Savings},
		{"Self use (%)", total.SelfUsePercentage},
	}
	for _, line := range lines {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", line.label, round(line.value)))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Yield", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Consumption", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Import", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Export", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Savings", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, day := range report.Summary.Daily() {
		pdf.CellFormat(30, 5, day.At.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 5, round(day.Yield), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, round(day.Consumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, round(day.ImportGrid+day.ImportSelf), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, round(day.ExportGrid+day.ExportSelf), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, round(day.Savings), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// round formats v with at most three decimals.
func round(v float64) string {
	return decimal.NewFromFloat(v).Round(3).String()
}
