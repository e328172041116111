package dataprocessing

import (
	"covidtracker/pkg/contracts/domain"
)

// Enricher computes derived metrics for one entity's cleaned history.
type Enricher struct {
	rollingDays int
	metrics     []domain.DerivedMetric
}

// NewEnricher creates an enricher computing the given metrics.
func NewEnricher(rollingDays int, metrics []domain.DerivedMetric) *Enricher {
	if rollingDays <= 0 {
		rollingDays = 7
	}
	return &Enricher{rollingDays: rollingDays, metrics: metrics}
}

// Enrich converts a gap-filled, date-ordered group into clean records.
func (e *Enricher) Enrich(group EntityGroup) []domain.CleanRecord {
	out := make([]domain.CleanRecord, len(group.Records))
	for i, r := range group.Records {
		out[i] = domain.CleanRecord{
			Record: r,
			Year:   r.Date.Year(),
			Month:  r.Date.Month(),
		}
	}

	for _, m := range e.metrics {
		switch m {
		case domain.MetricCaseFatalityRate:
			for i := range out {
				out[i].CaseFatalityRate = CaseFatalityRate(out[i].TotalDeaths, out[i].TotalCases)
			}
		case domain.MetricWeeklyCaseGrowth:
			growth := WeeklyGrowth(newCases(group.Records), e.rollingDays)
			for i := range out {
				out[i].WeeklyCaseGrowth = growth[i]
			}
		case domain.MetricPctVaccinated:
			for i := range out {
				out[i].PctVaccinated = PercentOfPopulation(out[i].PeopleVaccinated, out[i].Population)
			}
		case domain.MetricPctFullyVaccinated:
			for i := range out {
				out[i].PctFullyVaccinated = PercentOfPopulation(out[i].PeopleFullyVaccinated, out[i].Population)
			}
		}
	}

	return out
}

// CaseFatalityRate is deaths per 100 cases. Zero cases yields an
// undefined metric.
func CaseFatalityRate(deaths, cases domain.Value) domain.Metric {
	if !deaths.Valid || !cases.Valid {
		return domain.Undefined(domain.ReasonMissingInput)
	}
	return domain.Ratio(deaths.V, cases.V, 100)
}

// PercentOfPopulation is count per 100 inhabitants.
func PercentOfPopulation(count, population domain.Value) domain.Metric {
	if !count.Valid || !population.Valid {
		return domain.Undefined(domain.ReasonMissingInput)
	}
	return domain.Ratio(count.V, population.V, 100)
}

// WeeklyGrowth returns, for each position, the fractional change of the
// trailing window sum against the previous position's window sum
// (0.25 means +25%). The first window positions have no previous full
// window and are undefined.
func WeeklyGrowth(values []float64, window int) []domain.Metric {
	out := make([]domain.Metric, len(values))
	sums := make([]float64, len(values))

	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		for _, v := range values[start : i+1] {
			sums[i] += v
		}
	}

	for i := range values {
		if i < window {
			out[i] = domain.Undefined(domain.ReasonInsufficientHistory)
			continue
		}
		prev := sums[i-1]
		if prev == 0 {
			out[i] = domain.Undefined(domain.ReasonZeroDenominator)
			continue
		}
		out[i] = domain.Defined(sums[i]/prev - 1)
	}

	return out
}

func newCases(records []domain.Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.NewCases.V
	}
	return out
}
