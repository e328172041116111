package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// ErrMetricUnavailable is returned for a metric the dataset cannot rank.
var ErrMetricUnavailable = errors.New("metric unavailable")

// Ranked is one entity's value at the ranking date.
type Ranked struct {
	Entity string
	Value  float64
	Date   time.Time
}

// Unit describes how a metric is displayed.
type Unit string

const (
	UnitPerMillion Unit = "per million"
	UnitPercent    Unit = "%"
	UnitCount      Unit = "count"
)

// UnitOf returns the display unit of a metric name.
func UnitOf(metric string) Unit {
	switch {
	case strings.Contains(metric, "per_million"):
		return UnitPerMillion
	case strings.HasPrefix(metric, "pct_"), metric == string(domain.MetricCaseFatalityRate):
		return UnitPercent
	default:
		return UnitCount
	}
}

// metricReader extracts a metric from a record.
type metricReader func(domain.CleanRecord) (float64, bool)

// resolveMetric finds a numeric column or derived metric by name.
func resolveMetric(ds *domain.Dataset, metric string) (metricReader, error) {
	if f, ok := domain.ParseField(metric); ok && f.IsNumeric() {
		if !ds.Schema().Has(f) {
			return nil, fmt.Errorf("%w: column %s not in source", ErrMetricUnavailable, metric)
		}
		return func(r domain.CleanRecord) (float64, bool) {
			v := r.Numeric(f)
			return v.V, v.Valid
		}, nil
	}
	if m, ok := domain.ParseDerivedMetric(metric); ok {
		if !ds.HasDerived(m) {
			return nil, fmt.Errorf("%w: %s was not derived", ErrMetricUnavailable, metric)
		}
		return func(r domain.CleanRecord) (float64, bool) {
			return r.Derived(m).Value()
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown metric %q", ErrMetricUnavailable, metric)
}

// Available reports whether TopN can rank the metric.
func Available(ds *domain.Dataset, metric string) bool {
	_, err := resolveMetric(ds, metric)
	return err == nil
}

// TopN ranks entities by metric at the dataset's most recent date.
// Entities with an undefined value are dropped; the result is sorted
// descending with ties broken by entity name and holds at most n entries.
func TopN(ds *domain.Dataset, metric string, n int) ([]Ranked, error) {
	if n < 1 {
		return nil, fmt.Errorf("top n must be positive, got %d", n)
	}
	read, err := resolveMetric(ds, metric)
	if err != nil {
		return nil, err
	}

	_, latest, ok := ds.DateRange()
	if !ok {
		return nil, nil
	}

	var ranked []Ranked
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if !r.Date.Equal(latest) {
			continue
		}
		v, ok := read(r)
		if !ok {
			continue
		}
		ranked = append(ranked, Ranked{Entity: r.Location, Value: v, Date: r.Date})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Entity < ranked[j].Entity
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
