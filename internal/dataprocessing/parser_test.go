package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidtracker/pkg/contracts/domain"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Value
		wantErr bool
	}{
		{"", domain.None(), false},
		{"  ", domain.None(), false},
		{"NaN", domain.None(), false},
		{"nan", domain.None(), false},
		{"42", domain.Some(42), false},
		{" 1.5e3 ", domain.Some(1500), false},
		{"-3", domain.Some(-3), false},
		{"abc", domain.None(), true},
		{"1,000", domain.None(), true},
		{"Inf", domain.None(), true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumeric(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotNumeric)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectRows(t *testing.T) {
	raw := rawFrom(t, "date,continent,location,iso_code,total_cases,junk",
		"2021-01-01,Testia, Testland ,TST,10,x",
		"2021-01-02,Testia,Testland,TST,oops,y",
	)
	schema := domain.ResolveSchema(raw.Header)

	records, errs := projectRows(schema, raw.Rows)
	require.Len(t, records, 2)
	require.Len(t, errs, 1)

	assert.Equal(t, "Testland", records[0].Location)
	assert.Equal(t, "TST", records[0].ISOCode)
	assert.Equal(t, "Testia", records[0].Continent)
	assert.Equal(t, domain.Some(10), records[0].TotalCases)

	colErr, ok := errs[0].(*ColumnError)
	require.True(t, ok)
	assert.Equal(t, 3, colErr.Line)
	assert.Equal(t, "oops", colErr.Value)
	assert.Contains(t, colErr.Error(), `column "total_cases": entity "Testland" on 2021-01-02`)
}
