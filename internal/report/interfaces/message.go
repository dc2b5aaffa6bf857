package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/Firestone82/SolaxStatistics/internal/report/application"
)

// SubjectPrefix starts every report notification subject.
const SubjectPrefix = "FVE - Monthly report of "

// DefaultMessageTemplate renders the monthly figures when no template is configured.
const DefaultMessageTemplate = `Monthly report {{.Period}} ({{.Currency}})

Consumption: {{.Consumption}} kWh
Yield: {{.Yield}} kWh
Self consumed: {{.SelfConsumed}} kWh ({{.SelfUsePercentage}} %)

Import grid: {{.ImportGrid}} kWh, cost {{.ImportCostGrid}}
Import self: {{.ImportSelf}} kWh, cost {{.ImportCostSelf}}
Import total: {{.ImportTotal}} kWh, cost {{.ImportCostTotal}}

Export grid: {{.ExportGrid}} kWh, revenue {{.ExportRevenueGrid}}
Export self: {{.ExportSelf}} kWh, revenue {{.ExportRevenueSelf}}
Export total: {{.ExportTotal}} kWh, revenue {{.ExportRevenueTotal}}

Savings: {{.Savings}}
{{ if .Estimated }}
Contains estimated intervals.
{{ end }}{{ if .Gaps }}
Dropped intervals: {{.Gaps}}
{{ end }}
Generated: {{.Timestamp}}`

// MessageData provides the figures of a report notification, rounded to
// three decimals.
type MessageData struct {
	Subject  string
	Period   string
	Currency string
	RunID    string

	Consumption       string
	Yield             string
	SelfConsumed      string
	SelfUsePercentage string
	Savings           string

	ImportGrid      string
	ImportSelf      string
	ImportTotal     string
	ImportCostGrid  string
	ImportCostSelf  string
	ImportCostTotal string

	ExportGrid         string
	ExportSelf         string
	ExportTotal        string
	ExportRevenueGrid  string
	ExportRevenueSelf  string
	ExportRevenueTotal string

	Estimated bool
	Gaps      int
	Timestamp string
	Artifacts []string
}

// Subject returns the notification subject of a month.
func Subject(period time.Time) string {
	return SubjectPrefix + period.Format("2006-01")
}

// NewMessageData extracts the month total of a report.
func NewMessageData(report *application.Report) (MessageData, error) {
	if report == nil || report.Summary == nil {
		return MessageData{}, errNilReport
	}
	t := report.Summary.Total()
	return MessageData{
		Subject:  Subject(report.Period),
		Period:   report.Period.Format("2006-01"),
		Currency: string(report.Currency),
		RunID:    report.RunID,

		Consumption:       round(t.Consumption),
		Yield:             round(t.Yield),
		SelfConsumed:      round(t.SelfConsumed),
		SelfUsePercentage: round(t.SelfUsePercentage),
		Savings:           round(t.Savings),

		ImportGrid:      round(t.ImportGrid),
		ImportSelf:      round(t.ImportSelf),
		ImportTotal:     round(t.ImportGrid + t.ImportSelf),
		ImportCostGrid:  round(t.ImportCostGrid),
		ImportCostSelf:  round(t.ImportCostSelf),
		ImportCostTotal: round(t.ImportCostGrid + t.ImportCostSelf),

		ExportGrid:         round(t.ExportGrid),
		ExportSelf:         round(t.ExportSelf),
		ExportTotal:        round(t.ExportGrid + t.ExportSelf),
		ExportRevenueGrid:  round(t.ExportRevenueGrid),
		ExportRevenueSelf:  round(t.ExportRevenueSelf),
		ExportRevenueTotal: round(t.ExportRevenueGrid + t.ExportRevenueSelf),

		Estimated: t.Estimated,
		Gaps:      len(report.Gaps),
		Timestamp: report.GeneratedAt.Format("2006-01-02 15:04:05"),
		Artifacts: report.Artifacts,
	}, nil
}

// MessageTemplate renders report notification content.
type MessageTemplate struct {
	tpl *template.Template
}

// NewMessageTemplate parses a template, falling back to DefaultMessageTemplate.
func NewMessageTemplate(tpl string) (*MessageTemplate, error) {
	if tpl == "" {
		tpl = DefaultMessageTemplate
	}
	parsed, err := template.New("report-notification").Parse(tpl)
	if err != nil {
		return nil, fmt.Errorf("report template: %w", err)
	}
	return &MessageTemplate{tpl: parsed}, nil
}

// Render applies the template to data.
func (t *MessageTemplate) Render(data MessageData) (string, error) {
	if t == nil || t.tpl == nil {
		return "", errors.New("report template: nil")
	}
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderReportMessage renders the subject and content of a report with the
// default template.
func RenderReportMessage(report *application.Report) (string, string, error) {
	tpl, err := NewMessageTemplate("")
	if err != nil {
		return "", "", err
	}
	data, err := NewMessageData(report)
	if err != nil {
		return "", "", err
	}
	content, err := tpl.Render(data)
	if err != nil {
		return "", "", err
	}
	return data.Subject, content, nil
}
