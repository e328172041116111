package dataprocessing

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"covidtracker/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawFrom builds a raw dataset from a comma separated header and rows.
// The first column of every row is the date.
func rawFrom(t *testing.T, header string, rows ...string) *domain.RawDataset {
	t.Helper()
	raw := &domain.RawDataset{Header: strings.Split(header, ",")}
	for i, row := range rows {
		cells := strings.Split(row, ",")
		require.Len(t, cells, len(raw.Header), "row %d", i)
		date, err := time.Parse("2006-01-02", cells[0])
		require.NoError(t, err)
		raw.Rows = append(raw.Rows, domain.RawRow{Line: i + 2, Date: date, Cells: cells})
	}
	return raw
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestCleaner(t *testing.T) *Cleaner {
	t.Helper()
	c, err := NewCleaner(quietLogger(), DefaultOptions())
	require.NoError(t, err)
	return c
}

func totals(records []domain.CleanRecord, loc string, f domain.Field) []float64 {
	var out []float64
	for _, r := range records {
		if r.Location == loc {
			out = append(out, r.Numeric(f).V)
		}
	}
	return out
}
