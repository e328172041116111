package analytics

import (
	"sort"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// TrendWindow is the rolling-mean window of the global trend, in days.
const TrendWindow = 7

// TrendPoint is one date of the global trend.
type TrendPoint struct {
	Date            time.Time
	NewCases        float64
	NewDeaths       float64
	NewVaccinations float64

	CasesAvg        domain.Metric
	DeathsAvg       domain.Metric
	VaccinationsAvg domain.Metric
}

// Trend is the global daily series.
type Trend struct {
	Points []TrendPoint
	// Vaccinations is false when the source had no new_vaccinations
	// column; the vaccination series is then all zero and not rendered.
	Vaccinations bool
}

// GlobalTrend sums new cases, new deaths and new vaccinations across
// entities per date, in ascending date order.
func GlobalTrend(ds *domain.Dataset) Trend {
	byDate := make(map[time.Time]*TrendPoint)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		p, ok := byDate[r.Date]
		if !ok {
			p = &TrendPoint{Date: r.Date}
			byDate[r.Date] = p
		}
		p.NewCases += r.NewCases.V
		p.NewDeaths += r.NewDeaths.V
		p.NewVaccinations += r.NewVaccinations.V
	}

	points := make([]TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	cases := make([]float64, len(points))
	deaths := make([]float64, len(points))
	vacc := make([]float64, len(points))
	for i, p := range points {
		cases[i], deaths[i], vacc[i] = p.NewCases, p.NewDeaths, p.NewVaccinations
	}
	casesAvg := RollingMean(cases, TrendWindow)
	deathsAvg := RollingMean(deaths, TrendWindow)
	vaccAvg := RollingMean(vacc, TrendWindow)
	for i := range points {
		points[i].CasesAvg = casesAvg[i]
		points[i].DeathsAvg = deathsAvg[i]
		points[i].VaccinationsAvg = vaccAvg[i]
	}

	return Trend{
		Points:       points,
		Vaccinations: ds.Schema().Has(domain.FieldNewVaccinations),
	}
}

// RollingMean returns the trailing mean over window positions. The first
// window-1 positions are undefined.
func RollingMean(values []float64, window int) []domain.Metric {
	out := make([]domain.Metric, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = domain.Undefined(domain.ReasonInsufficientHistory)
			continue
		}
		out[i] = domain.Defined(sum / float64(window))
	}
	return out
}
