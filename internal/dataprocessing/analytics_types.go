package dataprocessing

import (
	"covidtracker/pkg/contracts/domain"
)

// metricInputs lists the columns each derived metric is computed from.
var metricInputs = map[domain.DerivedMetric][]domain.Field{
	domain.MetricCaseFatalityRate:   {domain.FieldTotalDeaths, domain.FieldTotalCases},
	domain.MetricWeeklyCaseGrowth:   {domain.FieldNewCases},
	domain.MetricPctVaccinated:      {domain.FieldPeopleVaccinated, domain.FieldPopulation},
	domain.MetricPctFullyVaccinated: {domain.FieldPeopleFullyVaccinated, domain.FieldPopulation},
}

// MetricInputs returns the input columns of a derived metric.
func MetricInputs(m domain.DerivedMetric) []domain.Field {
	return append([]domain.Field(nil), metricInputs[m]...)
}

// availableMetrics returns the derived metrics whose inputs are all
// present, in canonical order, plus the missing column of each omitted one.
func availableMetrics(schema domain.Schema) (available []domain.DerivedMetric, gaps map[domain.DerivedMetric]domain.Field) {
	gaps = make(map[domain.DerivedMetric]domain.Field)
	for _, m := range domain.DerivedMetrics() {
		missing := domain.FieldInvalid
		for _, f := range MetricInputs(m) {
			if !schema.Has(f) {
				missing = f
				break
			}
		}
		if missing != domain.FieldInvalid {
			gaps[m] = missing
			continue
		}
		available = append(available, m)
	}
	return available, gaps
}
