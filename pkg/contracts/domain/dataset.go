package domain

import (
	"time"
)

// RawRow is one parsed line of the source: its date plus the raw cells.
type RawRow struct {
	Line  int
	Date  time.Time
	Cells []string
}

// RawDataset is what the loader hands to the cleaner. Dates are already
// parsed; every other cell is still text.
type RawDataset struct {
	Header []string
	Rows   []RawRow
}

// Len returns the number of raw rows.
func (d *RawDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Dataset is the cleaned, enriched dataset. It is immutable once built:
// accessors hand out copies.
type Dataset struct {
	schema  Schema
	derived []DerivedMetric
	records []CleanRecord
}

// NewDataset freezes records into a dataset. The slice is copied.
func NewDataset(schema Schema, derived []DerivedMetric, records []CleanRecord) *Dataset {
	recs := make([]CleanRecord, len(records))
	copy(recs, records)
	d := make([]DerivedMetric, len(derived))
	copy(d, derived)
	return &Dataset{schema: schema, derived: d, records: recs}
}

// Schema returns the source schema the dataset was built from.
func (d *Dataset) Schema() Schema {
	return d.schema
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// At returns a copy of record i.
func (d *Dataset) At(i int) CleanRecord {
	return d.records[i]
}

// Records returns a copy of all records in dataset order.
func (d *Dataset) Records() []CleanRecord {
	out := make([]CleanRecord, len(d.records))
	copy(out, d.records)
	return out
}

// DerivedMetrics returns the derived metrics that were computed, in
// canonical order.
func (d *Dataset) DerivedMetrics() []DerivedMetric {
	out := make([]DerivedMetric, len(d.derived))
	copy(out, d.derived)
	return out
}

// HasDerived reports whether metric m was computed for this dataset.
func (d *Dataset) HasDerived(m DerivedMetric) bool {
	for _, x := range d.derived {
		if x == m {
			return true
		}
	}
	return false
}

// Entities returns the distinct entity names in dataset order.
func (d *Dataset) Entities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.records {
		if !seen[r.Location] {
			seen[r.Location] = true
			out = append(out, r.Location)
		}
	}
	return out
}

// DateRange returns the earliest and latest dates. ok is false for an
// empty dataset.
func (d *Dataset) DateRange() (first, last time.Time, ok bool) {
	for i, r := range d.records {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, len(d.records) > 0
}
