package dataprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

// Summarizer produces the run summary of a cleaned dataset.
type Summarizer struct {
	logger     *slog.Logger
	dateFormat string
	topEntries int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	DateFormat string // Format for date strings in output
	TopEntries int    // Entities listed in the latest-snapshot section
}

// DefaultSummarizerConfig returns the default summarizer configuration
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		DateFormat: "2006-01-02",
		TopEntries: 10,
	}
}

// Summary describes the cleaned dataset.
type Summary struct {
	Source         string           `json:"source,omitempty"`
	Entities       int              `json:"entities"`
	Records        int              `json:"records"`
	FirstDate      string           `json:"first_date"`
	LastDate       string           `json:"last_date"`
	RawRecords     int              `json:"raw_records"`
	Excluded       int              `json:"excluded"`
	ForwardFilled  int              `json:"forward_filled"`
	ZeroFilled     int              `json:"zero_filled"`
	DerivedMetrics []string         `json:"derived_metrics"`
	OmittedMetrics []string         `json:"omitted_metrics,omitempty"`
	Latest         []EntitySnapshot `json:"latest"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// EntitySnapshot is an entity's last observation.
type EntitySnapshot struct {
	Entity           string   `json:"entity"`
	Date             string   `json:"date"`
	TotalCases       float64  `json:"total_cases"`
	TotalDeaths      float64  `json:"total_deaths"`
	CaseFatalityRate *float64 `json:"case_fatality_rate,omitempty"`
}

// NewSummarizer creates a new summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DateFormat == "" {
		config.DateFormat = "2006-01-02"
	}
	if config.TopEntries <= 0 {
		config.TopEntries = 10
	}

	return &Summarizer{
		logger:     logger,
		dateFormat: config.DateFormat,
		topEntries: config.TopEntries,
	}
}

// Generate builds the summary. stats may be zero when the dataset was not
// produced by CleanWithStats.
func (s *Summarizer) Generate(ctx context.Context, ds *domain.Dataset, stats Statistics) Summary {
	summary := Summary{
		Entities:       len(ds.Entities()),
		Records:        ds.Len(),
		RawRecords:     stats.RawRecords,
		Excluded:       stats.ExcludedCount,
		ForwardFilled:  stats.Fill.ForwardFilled,
		ZeroFilled:     stats.Fill.ZeroFilled,
		OmittedMetrics: stats.SchemaGaps,
		GeneratedAt:    time.Now().UTC(),
	}
	for _, m := range ds.DerivedMetrics() {
		summary.DerivedMetrics = append(summary.DerivedMetrics, string(m))
	}
	if first, last, ok := ds.DateRange(); ok {
		summary.FirstDate = first.Format(s.dateFormat)
		summary.LastDate = last.Format(s.dateFormat)
	}
	summary.Latest = s.latestSnapshots(ds)

	s.logger.InfoContext(ctx, "Generated dataset summary",
		slog.Int("entities", summary.Entities),
		slog.Int("records", summary.Records),
		slog.String("first_date", summary.FirstDate),
		slog.String("last_date", summary.LastDate))

	return summary
}

// latestSnapshots returns the last record of the entities with the most
// cases, largest first.
func (s *Summarizer) latestSnapshots(ds *domain.Dataset) []EntitySnapshot {
	latest := make(map[string]domain.CleanRecord)
	for _, r := range ds.Records() {
		if prev, ok := latest[r.Location]; !ok || !r.Date.Before(prev.Date) {
			latest[r.Location] = r
		}
	}

	snapshots := make([]EntitySnapshot, 0, len(latest))
	for _, r := range latest {
		snap := EntitySnapshot{
			Entity:      r.Location,
			Date:        r.Date.Format(s.dateFormat),
			TotalCases:  r.TotalCases.V,
			TotalDeaths: r.TotalDeaths.V,
		}
		if v, ok := r.CaseFatalityRate.Value(); ok && ds.HasDerived(domain.MetricCaseFatalityRate) {
			snap.CaseFatalityRate = &v
		}
		snapshots = append(snapshots, snap)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].TotalCases != snapshots[j].TotalCases {
			return snapshots[i].TotalCases > snapshots[j].TotalCases
		}
		return snapshots[i].Entity < snapshots[j].Entity
	})
	if len(snapshots) > s.topEntries {
		snapshots = snapshots[:s.topEntries]
	}
	return snapshots
}

// Lines renders the summary for the console.
func (sum Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("Cleaned data covers %d countries", sum.Entities),
		fmt.Sprintf("Time period: %s to %s", sum.FirstDate, sum.LastDate),
		fmt.Sprintf("Records: %d kept, %d aggregate rows excluded", sum.Records, sum.Excluded),
	}
	if len(sum.OmittedMetrics) > 0 {
		lines = append(lines, fmt.Sprintf("Metrics omitted (missing columns): %v", sum.OmittedMetrics))
	}
	return lines
}

// WriteJSON writes the summary as indented JSON.
func (s *Summarizer) WriteJSON(ctx context.Context, path string, summary Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewExportError("create summary directory", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.NewExportError("marshal summary", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewExportError(fmt.Sprintf("write summary %s", path), err)
	}

	s.logger.InfoContext(ctx, "Wrote run summary", slog.String("path", path))
	return nil
}
