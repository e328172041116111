package analytics

import (
	"archive/zip"
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

func day(d int) time.Time {
	return time.Date(2021, 3, d, 0, 0, 0, 0, time.UTC)
}

type row struct {
	loc      string
	d        int
	newCases float64
	perMil   float64
	cfr      domain.Metric
}

func buildDataset(vacc bool, rows ...row) *domain.Dataset {
	fields := []domain.Field{domain.FieldLocation, domain.FieldNewCases, domain.FieldNewDeaths, domain.FieldTotalCasesPerMillion}
	if vacc {
		fields = append(fields, domain.FieldNewVaccinations)
	}

	recs := make([]domain.CleanRecord, 0, len(rows))
	for _, r := range rows {
		rec := domain.CleanRecord{
			Record: domain.Record{
				Date:                 day(r.d),
				Location:             r.loc,
				NewCases:             domain.Some(r.newCases),
				NewDeaths:            domain.Some(r.newCases / 10),
				TotalCasesPerMillion: domain.Some(r.perMil),
			},
			CaseFatalityRate: r.cfr,
		}
		if vacc {
			rec.NewVaccinations = domain.Some(r.newCases * 2)
		}
		recs = append(recs, rec)
	}
	return domain.NewDataset(domain.NewSchema(fields...), []domain.DerivedMetric{domain.MetricCaseFatalityRate}, recs)
}

// chartParts counts the chart parts inside a saved workbook.
func chartParts(t *testing.T, path string) int {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") && strings.HasSuffix(f.Name, ".xml") {
			n++
		}
	}
	return n
}
