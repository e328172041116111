package exporter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureDataset() *domain.Dataset {
	schema := domain.NewSchema(
		domain.FieldLocation, domain.FieldISOCode, domain.FieldContinent,
		domain.FieldPopulation, domain.FieldTotalCases, domain.FieldTotalDeaths,
	)
	day := func(d int) time.Time { return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC) }

	mk := func(loc, iso string, d int, cases, deaths float64, cfr domain.Metric) domain.CleanRecord {
		return domain.CleanRecord{
			Record: domain.Record{
				Date: day(d), Location: loc, ISOCode: iso, Continent: "Testia",
				Population:  domain.Some(1e6 / 3),
				TotalCases:  domain.Some(cases),
				TotalDeaths: domain.Some(deaths),
			},
			Year:             2021,
			Month:            time.January,
			CaseFatalityRate: cfr,
		}
	}

	return domain.NewDataset(schema, []domain.DerivedMetric{domain.MetricCaseFatalityRate}, []domain.CleanRecord{
		mk("Testland", "TST", 1, 0, 0, domain.Undefined(domain.ReasonZeroDenominator)),
		mk("Testland", "TST", 2, 1000, 20, domain.Defined(2.0)),
		mk("Comma, Republic of", "CRO", 1, 3, 1, domain.Defined(100.0/3)),
	})
}

func TestColumns(t *testing.T) {
	cols := Columns(fixtureDataset())
	assert.Equal(t, []string{
		"date", "location", "iso_code", "continent",
		"population", "total_cases", "total_deaths",
		"case_fatality_rate",
		"year", "month",
	}, cols)
}

func TestDatasetExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "covid_clean_data.csv")
	exp := NewDatasetExporter(quietLogger(), DefaultExportOptions())

	n, err := exp.Export(context.Background(), fixtureDataset(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,location,iso_code,continent,population,total_cases,total_deaths,case_fatality_rate,year,month", lines[0])
	assert.Equal(t, "2021-01-01,Testland,TST,Testia,333333.3333333333,0,0,,2021,1", lines[1])
	assert.Equal(t, "2021-01-02,Testland,TST,Testia,333333.3333333333,1000,20,2,2021,1", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], `2021-01-01,"Comma, Republic of",CRO`))
}

func TestDatasetExporter_FixedPrecision(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "fixed.csv")
	exp := NewDatasetExporter(quietLogger(), ExportOptions{FloatPrecision: 2, BOMPrefix: true})

	_, err := exp.Export(context.Background(), fixtureDataset(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	buf.Write(data)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	assert.Contains(t, buf.String(), "333333.33,1000.00,20.00,2.00,2021,1")
}

func TestDatasetExporter_Errors(t *testing.T) {
	exp := NewDatasetExporter(quietLogger(), DefaultExportOptions())
	_, err := exp.Export(context.Background(), nil, filepath.Join(t.TempDir(), "x.csv"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindExport))

	bad := NewDatasetExporter(quietLogger(), ExportOptions{FloatPrecision: 42})
	_, err = bad.Export(context.Background(), fixtureDataset(), filepath.Join(t.TempDir(), "x.csv"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindExport))
}

func TestExportRoundTrip(t *testing.T) {
	for _, bom := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "roundtrip.csv")
		original := fixtureDataset()

		_, err := NewDatasetExporter(quietLogger(), ExportOptions{FloatPrecision: -1, BOMPrefix: bom}).
			Export(context.Background(), original, path)
		require.NoError(t, err)

		back, err := ReadCleanCSVFile(path)
		require.NoError(t, err)

		require.Equal(t, original.Len(), back.Len())
		assert.Equal(t, original.Schema().Fields(), back.Schema().Fields())
		assert.Equal(t, original.DerivedMetrics(), back.DerivedMetrics())

		for i := 0; i < original.Len(); i++ {
			want, got := original.At(i), back.At(i)
			assert.Equal(t, want.Record, got.Record, "record %d", i)
			assert.Equal(t, want.Year, got.Year)
			assert.Equal(t, want.Month, got.Month)

			wv, wok := want.CaseFatalityRate.Value()
			gv, gok := got.CaseFatalityRate.Value()
			assert.Equal(t, wok, gok)
			assert.Equal(t, wv, gv)
		}
	}
}

func TestReadCleanCSV_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"foreign column", "date,location,year,month,price\n"},
		{"no year", "date,location,month\n"},
		{"no location", "date,year,month\n"},
		{"bad month", "date,location,year,month\n2021-01-01,X,2021,13\n"},
		{"bad number", "date,location,total_cases,year,month\n2021-01-01,X,abc,2021,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCleanCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
