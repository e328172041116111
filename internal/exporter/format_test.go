package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"covidtracker/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in        float64
		precision int
		want      string
	}{
		{13.4, 2, "13.40"},
		{13.4, -1, "13.4"},
		{0.1 + 0.2, -1, "0.30000000000000004"},
		{1e21, -1, "1000000000000000000000"},
		{2, -1, "2"},
		{-0.5, 0, "-0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in, tt.precision))
	}
}

func TestFormatValueAndMetric(t *testing.T) {
	assert.Equal(t, "", formatValue(domain.None(), -1))
	assert.Equal(t, "100", formatValue(domain.Some(100), -1))

	assert.Equal(t, "", formatMetric(domain.Undefined(domain.ReasonZeroDenominator), -1))
	assert.Equal(t, "", formatMetric(domain.Defined(math.Inf(1)), -1))
	assert.Equal(t, "2.5", formatMetric(domain.Defined(2.5), -1))
	assert.Equal(t, "12", formatInt(12))
}
