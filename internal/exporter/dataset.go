package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

const (
	columnYear  = "year"
	columnMonth = "month"
	dateLayout  = "2006-01-02"
)

// ExportOptions configures the dataset export.
type ExportOptions struct {
	// FloatPrecision is the number of decimals; -1 writes the shortest
	// exact form.
	FloatPrecision int `validate:"gte=-1,lte=10"`
	BOMPrefix      bool
}

// DefaultExportOptions returns options that round-trip exactly.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{FloatPrecision: -1}
}

// DatasetExporter writes the cleaned dataset to CSV.
type DatasetExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
	options   ExportOptions
}

// NewDatasetExporter creates a new dataset exporter
func NewDatasetExporter(logger *slog.Logger, options ExportOptions) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetExporter{
		csvWriter: NewCSVWriter(logger),
		logger:    logger,
		options:   options,
	}
}

// Export writes one row per record in dataset order and returns the number
// of rows written.
func (d *DatasetExporter) Export(ctx context.Context, ds *domain.Dataset, outputPath string) (int, error) {
	if ds == nil {
		return 0, errors.NewExportError("nothing to export", errors.ErrEmptyDataset)
	}
	if err := validator.New().Struct(d.options); err != nil {
		return 0, errors.NewExportError("invalid export options", err)
	}

	headers := Columns(ds)
	stream, err := d.csvWriter.CreateStreamWriter(outputPath, headers, d.options.BOMPrefix)
	if err != nil {
		return 0, errors.NewExportError(fmt.Sprintf("create %s", outputPath), err)
	}

	numeric := ds.Schema().NumericFields()
	derived := ds.DerivedMetrics()

	for i := 0; i < ds.Len(); i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				stream.Close()
				return stream.Rows(), fmt.Errorf("export cancelled: %w", err)
			}
		}
		row := d.recordToCSVRow(ds.At(i), numeric, derived)
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return stream.Rows(), errors.NewExportError(fmt.Sprintf("write row %d", i+2), err)
		}
	}

	if err := stream.Close(); err != nil {
		return stream.Rows(), errors.NewExportError(fmt.Sprintf("close %s", outputPath), err)
	}

	d.logger.InfoContext(ctx, "Exported cleaned dataset",
		slog.String("path", outputPath),
		slog.Int("rows", stream.Rows()),
		slog.Int("columns", len(headers)))

	return stream.Rows(), nil
}

// Columns returns the export header for a dataset.
func Columns(ds *domain.Dataset) []string {
	headers := []string{domain.ColumnDate}
	for _, f := range domain.IdentifyingFields() {
		headers = append(headers, f.String())
	}
	for _, f := range ds.Schema().NumericFields() {
		headers = append(headers, f.String())
	}
	for _, m := range ds.DerivedMetrics() {
		headers = append(headers, string(m))
	}
	return append(headers, columnYear, columnMonth)
}

// recordToCSVRow converts a clean record to a CSV row
func (d *DatasetExporter) recordToCSVRow(record domain.CleanRecord, numeric []domain.Field, derived []domain.DerivedMetric) []string {
	p := d.options.FloatPrecision
	row := make([]string, 0, 6+len(numeric)+len(derived))

	row = append(row,
		record.Date.Format(dateLayout),
		record.Location,
		record.ISOCode,
		record.Continent,
	)
	for _, f := range numeric {
		row = append(row, formatValue(*record.Numeric(f), p))
	}
	for _, m := range derived {
		row = append(row, formatMetric(record.Derived(m), p))
	}
	return append(row, formatInt(record.Year), formatInt(int(record.Month)))
}
