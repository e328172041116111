package domain

import (
	"time"
)

// Record is one (entity, date) observation after column projection.
// Numeric attributes absent from the source stay invalid.
type Record struct {
	Date      time.Time `json:"date" validate:"required"`
	Location  string    `json:"location" validate:"required"`
	ISOCode   string    `json:"iso_code"`
	Continent string    `json:"continent"`

	Population            Value `json:"population"`
	TotalCases            Value `json:"total_cases"`
	NewCases              Value `json:"new_cases"`
	TotalDeaths           Value `json:"total_deaths"`
	NewDeaths             Value `json:"new_deaths"`
	TotalCasesPerMillion  Value `json:"total_cases_per_million"`
	NewCasesPerMillion    Value `json:"new_cases_per_million"`
	TotalDeathsPerMillion Value `json:"total_deaths_per_million"`
	NewDeathsPerMillion   Value `json:"new_deaths_per_million"`
	TotalVaccinations     Value `json:"total_vaccinations"`
	PeopleVaccinated      Value `json:"people_vaccinated"`
	PeopleFullyVaccinated Value `json:"people_fully_vaccinated"`
	NewVaccinations       Value `json:"new_vaccinations"`
	TotalBoosters         Value `json:"total_boosters"`
}

// Numeric returns a pointer to the numeric attribute for f, or nil when f
// is not numeric.
func (r *Record) Numeric(f Field) *Value {
	switch f {
	case FieldPopulation:
		return &r.Population
	case FieldTotalCases:
		return &r.TotalCases
	case FieldNewCases:
		return &r.NewCases
	case FieldTotalDeaths:
		return &r.TotalDeaths
	case FieldNewDeaths:
		return &r.NewDeaths
	case FieldTotalCasesPerMillion:
		return &r.TotalCasesPerMillion
	case FieldNewCasesPerMillion:
		return &r.NewCasesPerMillion
	case FieldTotalDeathsPerMillion:
		return &r.TotalDeathsPerMillion
	case FieldNewDeathsPerMillion:
		return &r.NewDeathsPerMillion
	case FieldTotalVaccinations:
		return &r.TotalVaccinations
	case FieldPeopleVaccinated:
		return &r.PeopleVaccinated
	case FieldPeopleFullyVaccinated:
		return &r.PeopleFullyVaccinated
	case FieldNewVaccinations:
		return &r.NewVaccinations
	case FieldTotalBoosters:
		return &r.TotalBoosters
	}
	return nil
}

// Text returns the identifying attribute for f.
func (r *Record) Text(f Field) string {
	switch f {
	case FieldLocation:
		return r.Location
	case FieldISOCode:
		return r.ISOCode
	case FieldContinent:
		return r.Continent
	}
	return ""
}

// SetText assigns an identifying attribute.
func (r *Record) SetText(f Field, s string) {
	switch f {
	case FieldLocation:
		r.Location = s
	case FieldISOCode:
		r.ISOCode = s
	case FieldContinent:
		r.Continent = s
	}
}

// CleanRecord is a Record after gap filling, enriched with derived
// metrics and its time bucket.
type CleanRecord struct {
	Record

	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	CaseFatalityRate   Metric `json:"-"`
	WeeklyCaseGrowth   Metric `json:"-"`
	PctVaccinated      Metric `json:"-"`
	PctFullyVaccinated Metric `json:"-"`
}

// Derived returns the derived metric identified by d.
func (r CleanRecord) Derived(d DerivedMetric) Metric {
	switch d {
	case MetricCaseFatalityRate:
		return r.CaseFatalityRate
	case MetricWeeklyCaseGrowth:
		return r.WeeklyCaseGrowth
	case MetricPctVaccinated:
		return r.PctVaccinated
	case MetricPctFullyVaccinated:
		return r.PctFullyVaccinated
	}
	return Undefined(ReasonMissingInput)
}

// SetDerived assigns the derived metric identified by d.
func (r *CleanRecord) SetDerived(d DerivedMetric, m Metric) {
	switch d {
	case MetricCaseFatalityRate:
		r.CaseFatalityRate = m
	case MetricWeeklyCaseGrowth:
		r.WeeklyCaseGrowth = m
	case MetricPctVaccinated:
		r.PctVaccinated = m
	case MetricPctFullyVaccinated:
		r.PctFullyVaccinated = m
	}
}

// DerivedMetric names a computed column.
type DerivedMetric string

const (
	MetricCaseFatalityRate   DerivedMetric = "case_fatality_rate"
	MetricWeeklyCaseGrowth   DerivedMetric = "weekly_case_growth"
	MetricPctVaccinated      DerivedMetric = "pct_vaccinated"
	MetricPctFullyVaccinated DerivedMetric = "pct_fully_vaccinated"
)

// DerivedMetrics returns all derived metrics in canonical export order.
func DerivedMetrics() []DerivedMetric {
	return []DerivedMetric{
		MetricCaseFatalityRate,
		MetricWeeklyCaseGrowth,
		MetricPctVaccinated,
		MetricPctFullyVaccinated,
	}
}

// ParseDerivedMetric resolves a column name to a derived metric.
func ParseDerivedMetric(name string) (DerivedMetric, bool) {
	for _, d := range DerivedMetrics() {
		if string(d) == name {
			return d, true
		}
	}
	return "", false
}
