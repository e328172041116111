package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSchema(t *testing.T) {
	header := []string{"date", "iso_code", "location", "mystery", "total_cases", "total_cases", "people_vaccinated"}
	s := ResolveSchema(header)

	assert.True(t, s.Has(FieldLocation))
	assert.True(t, s.Has(FieldTotalCases))
	assert.False(t, s.Has(FieldTotalDeaths))
	assert.False(t, s.Has(FieldContinent))

	idx, ok := s.Index(FieldTotalCases)
	assert.True(t, ok)
	assert.Equal(t, 4, idx, "first duplicate wins")

	assert.Equal(t, []Field{FieldLocation, FieldISOCode, FieldTotalCases, FieldPeopleVaccinated}, s.Fields())
	assert.Equal(t, []Field{FieldTotalCases, FieldPeopleVaccinated}, s.NumericFields())
}

func TestZeroSchema(t *testing.T) {
	var s Schema
	assert.False(t, s.Has(FieldLocation))
	assert.Empty(t, s.Fields())
}

func TestField(t *testing.T) {
	for _, f := range AllFields() {
		parsed, ok := ParseField(f.String())
		assert.True(t, ok, f.String())
		assert.Equal(t, f, parsed)
	}

	_, ok := ParseField("date")
	assert.False(t, ok)
	assert.Equal(t, "unknown", FieldInvalid.String())

	assert.True(t, FieldPopulation.IsNumeric())
	assert.False(t, FieldContinent.IsNumeric())
	assert.Len(t, NumericFields(), 14)
}
