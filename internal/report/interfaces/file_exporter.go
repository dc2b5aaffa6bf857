package interfaces

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	history "github.com/Firestone82/SolaxStatistics/internal/history/domain"
	"github.com/Firestone82/SolaxStatistics/internal/observability/metrics"
	"github.com/Firestone82/SolaxStatistics/internal/report/application"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("report export: unknown format")

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileExporter writes summary_YYYY-MM.<format> files into a directory.
type FileExporter struct {
	dir     string
	formats []Format
	logger  *zap.Logger
}

// NewFileExporter constructs an exporter. No formats means xlsx only.
func NewFileExporter(dir string, logger *zap.Logger, formats ...Format) (*FileExporter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("report export: empty directory")
	}
	for _, f := range formats {
		if f != FormatXLSX && f != FormatPDF {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	if len(formats) == 0 {
		formats = []Format{FormatXLSX}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileExporter{dir: dir, formats: formats, logger: logger}, nil
}

// Path returns the file a report is written to in format f.
func (e *FileExporter) Path(report *application.Report, f Format) string {
	return filepath.Join(e.dir, fmt.Sprintf("summary_%s.%s", history.PeriodKey(report.Period), f))
}

// Export implements application.Exporter. Existing files are overwritten.
func (e *FileExporter) Export(ctx context.Context, report *application.Report) ([]string, error) {
	if report == nil {
		return nil, errNilReport
	}
	paths := make([]string, 0, len(e.formats))
	for _, f := range e.formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path, err := e.write(report, f)
		if err != nil {
			metrics.IncExport(string(f), metrics.ResultError)
			return paths, err
		}
		metrics.IncExport(string(f), metrics.ResultSuccess)
		e.logger.Info("report exported", zap.String("format", string(f)), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *FileExporter) write(report *application.Report, f Format) (string, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatXLSX:
		data, err = BuildSummaryXLSX(report)
	case FormatPDF:
		data, err = BuildSummaryPDF(report)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return "", fmt.Errorf("report export %s: %w", f, err)
	}
	path := e.Path(report, f)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
