package solax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Firestone82/SolaxStatistics/internal/reconciliation/domain/meter"
)

// ErrNotDownloaded is returned when the month export is not on disk.
var ErrNotDownloaded = errors.New("solax: plant report not downloaded")

// Plant report column positions, zero based.
const (
	colTimestamp   = 1
	colYield       = 2
	colExport      = 4
	colConsumption = 5
	colImport      = 6

	headerRows = 2
)

// Reader loads the "Plant Reports" xlsx export of the inverter portal: one
// row per 5 minutes with cumulative day counters in kWh.
type Reader struct {
	dir    string
	logger *zap.Logger
}

// NewReader constructs a reader for exports stored under dir/solax.
func NewReader(dir string, logger *zap.Logger) (*Reader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("solax: empty directory")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{dir: dir, logger: logger}, nil
}

// Path returns the export file of a month.
func (r *Reader) Path(period time.Time) string {
	return filepath.Join(r.dir, "solax", fmt.Sprintf("plant_report_%s.xlsx", period.Format("2006-01")))
}

// InverterRecords reads the raw rows of a month export.
func (r *Reader) InverterRecords(ctx context.Context, period time.Time) ([]meter.RawRecord, error) {
	path := r.Path(period)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotDownloaded, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadRecords(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("solax: %s: %w", path, err)
	}
	r.logger.Debug("loaded plant report", zap.String("path", path), zap.Int("rows", len(records)))
	return records, nil
}

// ReadRecords reads the first sheet of a plant report, skipping the header
// and sub-header rows. Cells are returned as their stored values, ignoring
// number formats.
func ReadRecords(ctx context.Context, src io.Reader) ([]meter.RawRecord, error) {
	book, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	records := make([]meter.RawRecord, 0, len(rows))
	for i, row := range rows {
		if i < headerRows {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) <= colTimestamp || strings.TrimSpace(row[colTimestamp]) == "" {
			continue
		}
		records = append(records, meter.RawRecord{
			Row:         i + 1,
			Timestamp:   cell(row, colTimestamp),
			Yield:       cell(row, colYield),
			Export:      cell(row, colExport),
			Consumption: cell(row, colConsumption),
			Import:      cell(row, colImport),
		})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
