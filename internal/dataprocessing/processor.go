package dataprocessing

import (
	"sort"

	"covidtracker/pkg/contracts/domain"
)

// EntityGroup is the chronologically ordered history of one entity.
type EntityGroup struct {
	Entity  string
	Records []domain.Record
}

// GroupByEntity partitions records by location. Groups keep the order in
// which entities first appear; each group is stable-sorted by date.
func GroupByEntity(records []domain.Record) []EntityGroup {
	index := make(map[string]int)
	var groups []EntityGroup

	for _, record := range records {
		i, ok := index[record.Location]
		if !ok {
			i = len(groups)
			index[record.Location] = i
			groups = append(groups, EntityGroup{Entity: record.Location})
		}
		groups[i].Records = append(groups[i].Records, record)
	}

	for _, g := range groups {
		recs := g.Records
		sort.SliceStable(recs, func(a, b int) bool {
			return recs[a].Date.Before(recs[b].Date)
		})
	}

	return groups
}

// ForwardFillProcessor fills gaps in numeric columns within each entity.
type ForwardFillProcessor struct{}

// NewForwardFillProcessor creates a new forward-fill processor
func NewForwardFillProcessor() *ForwardFillProcessor {
	return &ForwardFillProcessor{}
}

// ForwardFillStatistics represents forward-fill operation statistics
type ForwardFillStatistics struct {
	EntitiesProcessed int
	FieldsProcessed   int
	ForwardFilled     int
	ZeroFilled        int
	// PerField counts filled cells (forward and zero) by column name.
	PerField map[string]int
}

// Filled returns the total number of filled cells.
func (s ForwardFillStatistics) Filled() int {
	return s.ForwardFilled + s.ZeroFilled
}

// FillMissingDataWithStats replaces every missing value of the given fields
// with the most recent prior value of the same entity, and with zero where
// the entity has no prior value. Groups are modified in place and never
// share values with each other.
func (f *ForwardFillProcessor) FillMissingDataWithStats(groups []EntityGroup, fields []domain.Field) ForwardFillStatistics {
	stats := ForwardFillStatistics{
		EntitiesProcessed: len(groups),
		FieldsProcessed:   len(fields),
		PerField:          make(map[string]int),
	}

	for _, g := range groups {
		for _, field := range fields {
			if !field.IsNumeric() {
				continue
			}
			var last domain.Value
			for i := range g.Records {
				v := g.Records[i].Numeric(field)
				if v.Valid {
					last = *v
					continue
				}
				if last.Valid {
					*v = last
					stats.ForwardFilled++
				} else {
					*v = domain.Some(0)
					stats.ZeroFilled++
				}
				stats.PerField[field.String()]++
			}
		}
	}

	return stats
}
