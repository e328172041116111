package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC)
}

func record(loc string, d int, cases float64) CleanRecord {
	return CleanRecord{Record: Record{Date: day(d), Location: loc, TotalCases: Some(cases)}}
}

func TestDataset_Immutable(t *testing.T) {
	recs := []CleanRecord{record("Testland", 2, 10), record("Otherland", 1, 5)}
	ds := NewDataset(NewSchema(FieldLocation, FieldTotalCases), []DerivedMetric{MetricCaseFatalityRate}, recs)

	recs[0].Location = "Mutated"
	assert.Equal(t, "Testland", ds.At(0).Location)

	out := ds.Records()
	out[0].TotalCases = Some(999)
	assert.Equal(t, 10.0, ds.At(0).TotalCases.V)

	derived := ds.DerivedMetrics()
	derived[0] = MetricWeeklyCaseGrowth
	assert.True(t, ds.HasDerived(MetricCaseFatalityRate))
	assert.False(t, ds.HasDerived(MetricWeeklyCaseGrowth))
}

func TestDataset_EntitiesAndRange(t *testing.T) {
	ds := NewDataset(Schema{}, nil, []CleanRecord{
		record("Testland", 3, 1),
		record("Otherland", 1, 1),
		record("Testland", 4, 1),
	})

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Testland", "Otherland"}, ds.Entities())

	first, last, ok := ds.DateRange()
	require.True(t, ok)
	assert.Equal(t, day(1), first)
	assert.Equal(t, day(4), last)

	_, _, ok = NewDataset(Schema{}, nil, nil).DateRange()
	assert.False(t, ok)
}

func TestCleanRecord_Derived(t *testing.T) {
	var r CleanRecord
	for _, m := range DerivedMetrics() {
		r.SetDerived(m, Defined(1.5))
		assert.True(t, r.Derived(m).IsDefined(), m)
	}
	assert.False(t, r.Derived("unknown").IsDefined())

	_, ok := ParseDerivedMetric("case_fatality_rate")
	assert.True(t, ok)
	_, ok = ParseDerivedMetric("total_cases")
	assert.False(t, ok)
}

func TestRecord_Accessors(t *testing.T) {
	var r Record
	for _, f := range NumericFields() {
		require.NotNil(t, r.Numeric(f), f.String())
		*r.Numeric(f) = Some(float64(f))
	}
	assert.Equal(t, float64(FieldTotalCases), r.TotalCases.V)
	assert.Nil(t, r.Numeric(FieldLocation))

	r.SetText(FieldISOCode, "TST")
	assert.Equal(t, "TST", r.Text(FieldISOCode))
	assert.Equal(t, "", r.Text(FieldPopulation))
}
