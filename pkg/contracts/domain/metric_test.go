package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetric(t *testing.T) {
	tests := []struct {
		name    string
		metric  Metric
		defined bool
		value   float64
		reason  UndefinedReason
	}{
		{"defined", Defined(2.5), true, 2.5, ReasonNone},
		{"defined zero", Defined(0), true, 0, ReasonNone},
		{"nan", Defined(math.NaN()), false, 0, ReasonZeroDenominator},
		{"inf", Defined(math.Inf(1)), false, 0, ReasonZeroDenominator},
		{"undefined history", Undefined(ReasonInsufficientHistory), false, 0, ReasonInsufficientHistory},
		{"undefined empty reason", Undefined(ReasonNone), false, 0, ReasonMissingInput},
		{"zero value", Metric{}, true, 0, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.metric.Value()
			assert.Equal(t, tt.defined, ok)
			assert.Equal(t, tt.defined, tt.metric.IsDefined())
			assert.Equal(t, tt.value, v)
			assert.Equal(t, tt.reason, tt.metric.Reason())
		})
	}
}

func TestRatio(t *testing.T) {
	m := Ratio(20, 1000, 100)
	v, ok := m.Value()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-12)

	m = Ratio(5, 0, 100)
	assert.False(t, m.IsDefined())
	assert.Equal(t, ReasonZeroDenominator, m.Reason())
	assert.Equal(t, "undefined(zero_denominator)", m.String())
}

func TestValue(t *testing.T) {
	assert.Equal(t, Value{V: 3, Valid: true}, Some(3))
	assert.False(t, None().Valid)
}
