package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"covidtracker/pkg/contracts/domain"
)

// ErrMissingColumn is returned when a mandatory column is absent.
var ErrMissingColumn = errors.New("missing required column")

// dateLayouts are tried in order for the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseCSV reads delimited text with a header row into a raw dataset.
// A row with the wrong number of fields or an unparseable date makes the
// whole source malformed.
func ParseCSV(r io.Reader) (*domain.RawDataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input: %w", err)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV: %w", err)
		}
		rows = append(rows, record)
	}

	return buildRaw(header, rows)
}

// ParseWorkbook reads the first sheet of an Excel workbook. The first row
// is the header.
func ParseWorkbook(r io.Reader) (*domain.RawDataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	// GetRows trims trailing empty cells; pad to header width.
	width := len(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		body = append(body, row)
	}

	return buildRaw(rows[0], body)
}

func buildRaw(header []string, rows [][]string) (*domain.RawDataset, error) {
	header = normalizeHeader(header)

	dateIdx := indexOf(header, domain.ColumnDate)
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, domain.ColumnDate)
	}
	if indexOf(header, domain.FieldLocation.String()) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, domain.FieldLocation)
	}

	raw := &domain.RawDataset{
		Header: header,
		Rows:   make([]domain.RawRow, 0, len(rows)),
	}

	for i, cells := range rows {
		line := i + 2 // header is line 1
		if len(cells) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(cells))
		}
		date, err := ParseDate(cells[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		raw.Rows = append(raw.Rows, domain.RawRow{Line: line, Date: date, Cells: cells})
	}

	return raw, nil
}

// ParseDate parses a date cell using the accepted layouts. The result is
// truncated to a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
