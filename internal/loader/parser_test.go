package loader

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr string
	}{
		{
			name:  "valid",
			input: "date,location,total_cases\n2021-01-01,Testland,1\n2021-01-02,Testland,2\n",
			rows:  2,
		},
		{
			name:  "header only",
			input: "date,location\n",
			rows:  0,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "empty input",
		},
		{
			name:    "missing date column",
			input:   "day,location\n2021-01-01,Testland\n",
			wantErr: "missing required column: date",
		},
		{
			name:    "missing location column",
			input:   "date,country\n2021-01-01,Testland\n",
			wantErr: "missing required column: location",
		},
		{
			name:    "bad date",
			input:   "date,location\nyesterday,Testland\n",
			wantErr: `line 2: invalid date "yesterday"`,
		},
		{
			name:    "ragged row",
			input:   "date,location\n2021-01-01,Testland,extra\n",
			wantErr: "malformed CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, raw.Len())
		})
	}
}

func TestParseCSV_NormalizesHeader(t *testing.T) {
	raw, err := ParseCSV(strings.NewReader("\ufeffDate, Location ,Total_Cases\n2021-03-04,Testland,5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "location", "total_cases"}, raw.Header)
	require.Equal(t, 1, raw.Len())
	assert.Equal(t, 2, raw.Rows[0].Line)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), raw.Rows[0].Date)
	assert.Equal(t, "5", raw.Rows[0].Cells[2])
}

func TestParseDate(t *testing.T) {
	want := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2021-01-02", "2021-01-02T15:04:05Z", "2021-01-02 10:00:00", "2021/01/02", " 2021-01-02 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("02.01.2021")
	assert.Error(t, err)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"date", "location", "total_cases"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2021-01-01", "Testland", "100"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2021-01-02", "Testland"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	raw, err := ParseWorkbook(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, raw.Len())
	assert.Equal(t, []string{"2021-01-02", "Testland", ""}, raw.Rows[1].Cells)
}

func TestParseWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("date,location\n"))
	assert.Error(t, err)
}
