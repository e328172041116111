package domain

import (
	"fmt"
	"math"
)

// Value is an optional numeric attribute. Valid is false when the source
// had no value for it.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present value.
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// None returns a missing value.
func None() Value {
	return Value{}
}

// UndefinedReason explains why a derived metric has no value.
type UndefinedReason string

const (
	ReasonNone                UndefinedReason = ""
	ReasonZeroDenominator     UndefinedReason = "zero_denominator"
	ReasonInsufficientHistory UndefinedReason = "insufficient_history"
	ReasonMissingInput        UndefinedReason = "missing_input"
)

// Metric is the tagged result of a derived computation: either a finite
// value or an undefined marker carrying its reason. It never holds NaN or
// an infinity.
type Metric struct {
	value  float64
	reason UndefinedReason
}

// Defined wraps a computed value. Non-finite input is recorded as undefined
// with a zero-denominator reason.
func Defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{reason: ReasonZeroDenominator}
	}
	return Metric{value: v}
}

// Undefined returns an undefined marker.
func Undefined(reason UndefinedReason) Metric {
	if reason == ReasonNone {
		reason = ReasonMissingInput
	}
	return Metric{reason: reason}
}

// IsDefined reports whether the metric carries a value.
func (m Metric) IsDefined() bool {
	return m.reason == ReasonNone
}

// Value returns the metric value and whether it is defined.
func (m Metric) Value() (float64, bool) {
	return m.value, m.IsDefined()
}

// Reason returns why the metric is undefined, or ReasonNone.
func (m Metric) Reason() UndefinedReason {
	return m.reason
}

// String renders the metric for logs.
func (m Metric) String() string {
	if !m.IsDefined() {
		return fmt.Sprintf("undefined(%s)", m.reason)
	}
	return fmt.Sprintf("%g", m.value)
}

// Ratio divides num by den, scaled by factor. A zero denominator yields an
// undefined metric.
func Ratio(num, den, factor float64) Metric {
	if den == 0 {
		return Undefined(ReasonZeroDenominator)
	}
	return Defined(num / den * factor)
}
