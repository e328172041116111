package exporter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// ErrNotCleanCSV is returned when the header does not look like an export
// of this package.
var ErrNotCleanCSV = errors.New("not a cleaned dataset export")

// ReadCleanCSVFile reads an exported dataset from disk.
func ReadCleanCSVFile(path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCleanCSV(file)
}

// ReadCleanCSV parses a file written by DatasetExporter back into a
// dataset. Empty derived cells become undefined metrics; the undefined
// reason is not part of the export and reads back as missing input.
func ReadCleanCSV(r io.Reader) (*domain.Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	layout, err := parseLayout(header)
	if err != nil {
		return nil, err
	}

	var records []domain.CleanRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := layout.decode(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return domain.NewDataset(domain.NewSchema(layout.schemaFields()...), layout.derived, records), nil
}

type columnLayout struct {
	date    int
	year    int
	month   int
	text    map[domain.Field]int
	numeric []domain.Field
	numIdx  []int
	derived []domain.DerivedMetric
	derIdx  []int
}

func parseLayout(header []string) (*columnLayout, error) {
	l := &columnLayout{date: -1, year: -1, month: -1, text: make(map[domain.Field]int)}

	for i, name := range header {
		switch name {
		case domain.ColumnDate:
			l.date = i
			continue
		case columnYear:
			l.year = i
			continue
		case columnMonth:
			l.month = i
			continue
		}
		if f, ok := domain.ParseField(name); ok {
			if f.IsNumeric() {
				l.numeric = append(l.numeric, f)
				l.numIdx = append(l.numIdx, i)
			} else {
				l.text[f] = i
			}
			continue
		}
		if m, ok := domain.ParseDerivedMetric(name); ok {
			l.derived = append(l.derived, m)
			l.derIdx = append(l.derIdx, i)
			continue
		}
		return nil, fmt.Errorf("%w: unexpected column %q", ErrNotCleanCSV, name)
	}

	if l.date < 0 || l.year < 0 || l.month < 0 {
		return nil, fmt.Errorf("%w: date, year and month columns are required", ErrNotCleanCSV)
	}
	if _, ok := l.text[domain.FieldLocation]; !ok {
		return nil, fmt.Errorf("%w: location column is required", ErrNotCleanCSV)
	}
	return l, nil
}

// schemaFields returns the identifying fields followed by the numeric
// fields, which is how the export laid them out.
func (l *columnLayout) schemaFields() []domain.Field {
	fields := make([]domain.Field, 0, len(l.text)+len(l.numeric))
	for _, f := range domain.IdentifyingFields() {
		if _, ok := l.text[f]; ok {
			fields = append(fields, f)
		}
	}
	return append(fields, l.numeric...)
}

func (l *columnLayout) decode(row []string) (domain.CleanRecord, error) {
	var rec domain.CleanRecord

	date, err := time.Parse(dateLayout, row[l.date])
	if err != nil {
		return rec, fmt.Errorf("invalid date %q", row[l.date])
	}
	rec.Date = date

	for f, i := range l.text {
		rec.SetText(f, row[i])
	}

	for k, f := range l.numeric {
		v, err := parseOptional(row[l.numIdx[k]])
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", f, err)
		}
		*rec.Numeric(f) = v
	}

	for k, m := range l.derived {
		v, err := parseOptional(row[l.derIdx[k]])
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", m, err)
		}
		if v.Valid {
			rec.SetDerived(m, domain.Defined(v.V))
		} else {
			rec.SetDerived(m, domain.Undefined(domain.ReasonMissingInput))
		}
	}

	if rec.Year, err = strconv.Atoi(row[l.year]); err != nil {
		return rec, fmt.Errorf("invalid year %q", row[l.year])
	}
	month, err := strconv.Atoi(row[l.month])
	if err != nil || month < 1 || month > 12 {
		return rec, fmt.Errorf("invalid month %q", row[l.month])
	}
	rec.Month = time.Month(month)

	return rec, nil
}

func parseOptional(s string) (domain.Value, error) {
	if s == "" {
		return domain.None(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.None(), err
	}
	return domain.Some(v), nil
}
