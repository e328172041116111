package exporter

import (
	"strconv"

	"covidtracker/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output. A negative precision
// gives the shortest representation that round-trips.
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// formatValue formats an optional value; missing values are empty.
func formatValue(v domain.Value, precision int) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.V, precision)
}

// formatMetric formats a derived metric; undefined metrics are empty.
func formatMetric(m domain.Metric, precision int) string {
	v, ok := m.Value()
	if !ok {
		return ""
	}
	return formatFloat(v, precision)
}

// formatInt formats an integer for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
