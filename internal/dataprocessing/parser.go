package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// ErrNotNumeric marks a cell that is neither empty nor a number.
var ErrNotNumeric = errors.New("not a number")

// ColumnError reports one unparseable cell.
type ColumnError struct {
	Entity string
	Date   time.Time
	Line   int
	Column string
	Value  string
	Err    error
}

// Error implements the error interface
func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: entity %q on %s (line %d): invalid value %q: %v",
		e.Column, e.Entity, e.Date.Format("2006-01-02"), e.Line, e.Value, e.Err)
}

// Unwrap returns the underlying error
func (e *ColumnError) Unwrap() error {
	return e.Err
}

// parseNumeric converts a raw cell. Empty cells and NaN literals are
// missing values.
func parseNumeric(s string) (domain.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return domain.None(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.None(), ErrNotNumeric
	}
	if math.IsInf(v, 0) {
		return domain.None(), ErrNotNumeric
	}
	return domain.Some(v), nil
}

// projectRows maps raw rows onto typed records using the schema. Columns
// the schema does not know are dropped. Every unparseable cell is
// reported; the returned records are only usable when the error list is
// empty.
func projectRows(schema domain.Schema, rows []domain.RawRow) ([]domain.Record, []error) {
	textFields := make([]domain.Field, 0, 3)
	for _, f := range domain.IdentifyingFields() {
		if schema.Has(f) {
			textFields = append(textFields, f)
		}
	}
	numericFields := schema.NumericFields()

	records := make([]domain.Record, 0, len(rows))
	var errs []error

	for _, row := range rows {
		record := domain.Record{Date: row.Date}
		for _, f := range textFields {
			idx, _ := schema.Index(f)
			record.SetText(f, strings.TrimSpace(cell(row.Cells, idx)))
		}

		for _, f := range numericFields {
			idx, _ := schema.Index(f)
			raw := cell(row.Cells, idx)
			v, err := parseNumeric(raw)
			if err != nil {
				errs = append(errs, &ColumnError{
					Entity: record.Location,
					Date:   row.Date,
					Line:   row.Line,
					Column: f.String(),
					Value:  raw,
					Err:    err,
				})
				continue
			}
			*record.Numeric(f) = v
		}

		records = append(records, record)
	}

	return records, errs
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
