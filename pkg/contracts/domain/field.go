package domain

// Field identifies a canonical column of the epidemiological dataset.
// The zero value is not a valid field.
type Field int

const (
	FieldInvalid Field = iota

	// Identifying columns
	FieldLocation
	FieldISOCode
	FieldContinent

	// Numeric columns, in canonical export order
	FieldPopulation
	FieldTotalCases
	FieldNewCases
	FieldTotalDeaths
	FieldNewDeaths
	FieldTotalCasesPerMillion
	FieldNewCasesPerMillion
	FieldTotalDeathsPerMillion
	FieldNewDeathsPerMillion

	// Optional vaccination columns
	FieldTotalVaccinations
	FieldPeopleVaccinated
	FieldPeopleFullyVaccinated
	FieldNewVaccinations
	FieldTotalBoosters

	fieldCount
)

// ColumnDate is the mandatory temporal column. It is parsed by the loader
// and therefore is not a Field.
const ColumnDate = "date"

var fieldNames = [fieldCount]string{
	FieldInvalid:               "",
	FieldLocation:              "location",
	FieldISOCode:               "iso_code",
	FieldContinent:             "continent",
	FieldPopulation:            "population",
	FieldTotalCases:            "total_cases",
	FieldNewCases:              "new_cases",
	FieldTotalDeaths:           "total_deaths",
	FieldNewDeaths:             "new_deaths",
	FieldTotalCasesPerMillion:  "total_cases_per_million",
	FieldNewCasesPerMillion:    "new_cases_per_million",
	FieldTotalDeathsPerMillion: "total_deaths_per_million",
	FieldNewDeathsPerMillion:   "new_deaths_per_million",
	FieldTotalVaccinations:     "total_vaccinations",
	FieldPeopleVaccinated:      "people_vaccinated",
	FieldPeopleFullyVaccinated: "people_fully_vaccinated",
	FieldNewVaccinations:       "new_vaccinations",
	FieldTotalBoosters:         "total_boosters",
}

// String returns the column name of the field.
func (f Field) String() string {
	if f <= FieldInvalid || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// IsNumeric reports whether the field holds a numeric value.
func (f Field) IsNumeric() bool {
	return f >= FieldPopulation && f < fieldCount
}

// ParseField resolves a column name to its canonical field.
func ParseField(name string) (Field, bool) {
	for f := FieldLocation; f < fieldCount; f++ {
		if fieldNames[f] == name {
			return f, true
		}
	}
	return FieldInvalid, false
}

// IdentifyingFields returns the identifying columns in canonical order.
func IdentifyingFields() []Field {
	return []Field{FieldLocation, FieldISOCode, FieldContinent}
}

// NumericFields returns all numeric columns in canonical order.
func NumericFields() []Field {
	fields := make([]Field, 0, fieldCount-FieldPopulation)
	for f := FieldPopulation; f < fieldCount; f++ {
		fields = append(fields, f)
	}
	return fields
}

// AllFields returns every recognized field in canonical order.
func AllFields() []Field {
	return append(IdentifyingFields(), NumericFields()...)
}
