package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidtracker/pkg/contracts/domain"
)

func TestCaseFatalityRate(t *testing.T) {
	tests := []struct {
		name    string
		deaths  domain.Value
		cases   domain.Value
		want    float64
		defined bool
		reason  domain.UndefinedReason
	}{
		{"example", domain.Some(20), domain.Some(1000), 2.0, true, domain.ReasonNone},
		{"no deaths", domain.Some(0), domain.Some(50), 0, true, domain.ReasonNone},
		{"zero cases", domain.Some(3), domain.Some(0), 0, false, domain.ReasonZeroDenominator},
		{"zero over zero", domain.Some(0), domain.Some(0), 0, false, domain.ReasonZeroDenominator},
		{"missing input", domain.None(), domain.Some(10), 0, false, domain.ReasonMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CaseFatalityRate(tt.deaths, tt.cases)
			v, ok := m.Value()
			assert.Equal(t, tt.defined, ok)
			assert.InDelta(t, tt.want, v, 1e-12)
			assert.Equal(t, tt.reason, m.Reason())
		})
	}
}

func TestWeeklyGrowth(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	got := WeeklyGrowth(values, 7)
	require.Len(t, got, len(values))

	for i := 0; i < 7; i++ {
		assert.Equal(t, domain.ReasonInsufficientHistory, got[i].Reason())
	}

	// window sums from index 6: 7, 8, 7, 6, 5, 4, 3, 2, 0, 0, 0
	v, ok := got[7].Value()
	require.True(t, ok)
	assert.InDelta(t, 8.0/7.0-1, v, 1e-12)

	v, ok = got[8].Value()
	require.True(t, ok)
	assert.InDelta(t, 7.0/8.0-1, v, 1e-12)

	v, ok = got[14].Value()
	require.True(t, ok)
	assert.InDelta(t, -1.0, v, 1e-12, "2 -> 0")

	assert.Equal(t, domain.ReasonZeroDenominator, got[15].Reason(), "0 -> 0")
	assert.Equal(t, domain.ReasonZeroDenominator, got[16].Reason())
}

func TestWeeklyGrowth_ShortSeries(t *testing.T) {
	got := WeeklyGrowth([]float64{5, 5, 5}, 7)
	for _, m := range got {
		assert.False(t, m.IsDefined())
	}
	assert.Empty(t, WeeklyGrowth(nil, 7))
}

func TestAvailableMetrics(t *testing.T) {
	schema := domain.NewSchema(domain.FieldLocation, domain.FieldTotalCases, domain.FieldTotalDeaths,
		domain.FieldPeopleVaccinated)

	available, gaps := availableMetrics(schema)
	assert.Equal(t, []domain.DerivedMetric{domain.MetricCaseFatalityRate}, available)
	assert.Equal(t, domain.FieldNewCases, gaps[domain.MetricWeeklyCaseGrowth])
	assert.Equal(t, domain.FieldPopulation, gaps[domain.MetricPctVaccinated])
	assert.Equal(t, domain.FieldPeopleFullyVaccinated, gaps[domain.MetricPctFullyVaccinated])
	assert.Equal(t, []domain.Field{domain.FieldNewCases}, MetricInputs(domain.MetricWeeklyCaseGrowth))
}
