package interfaces

import (
	"context"
	"errors"

	"github.com/Firestone82/SolaxStatistics/internal/report/application"
)

// ReportNotifier renders a report with a template and sends it on a channel.
type ReportNotifier struct {
	channel  Channel
	template *MessageTemplate
}

// NewReportNotifier constructs a notifier. A nil template uses the default.
func NewReportNotifier(channel Channel, template *MessageTemplate) (*ReportNotifier, error) {
	if channel == nil {
		return nil, errors.New("report notifier: nil channel")
	}
	if template == nil {
		defaultTemplate, err := NewMessageTemplate("")
		if err != nil {
			return nil, err
		}
		template = defaultTemplate
	}
	return &ReportNotifier{channel: channel, template: template}, nil
}

// Notify implements application.Notifier.
func (n *ReportNotifier) Notify(ctx context.Context, report *application.Report) error {
	data, err := NewMessageData(report)
	if err != nil {
		return err
	}
	content, err := n.template.Render(data)
	if err != nil {
		return err
	}
	return n.channel.Send(ctx, data.Subject, content)
}

// MultiNotifier forwards a report to several notifiers.
type MultiNotifier struct {
	notifiers []application.Notifier
}

// NewMultiNotifier constructs a MultiNotifier.
func NewMultiNotifier(notifiers ...application.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify calls every notifier and joins their errors.
func (m *MultiNotifier) Notify(ctx context.Context, report *application.Report) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, notifier := range m.notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
