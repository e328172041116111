package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"covidtracker/internal/analytics"
	"covidtracker/internal/config"
	"covidtracker/internal/dataprocessing"
	"covidtracker/internal/exporter"
	"covidtracker/internal/infrastructure"
	"covidtracker/internal/loader"
)

// StageOptions contains the dependencies shared by all steps
type StageOptions struct {
	Logger  *slog.Logger
	Metrics *infrastructure.PipelineMetrics
}

func (o StageOptions) logger(component string) *slog.Logger {
	return infrastructure.WithComponent(o.Logger, component)
}

// LoadStep fetches the raw dataset from the first working source
type LoadStep struct {
	BaseStage
	loader  *loader.Loader
	options StageOptions
}

// NewLoadStep creates the load step
func NewLoadStep(l *loader.Loader, options StageOptions) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		loader:    l,
		options:   options,
	}
}

// Execute implements Step
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	result, err := s.loader.Load(ctx)

	var attempts []loader.Attempt
	if result != nil {
		attempts = result.Attempts
	} else {
		var exhausted *loader.SourcesExhaustedError
		if errors.As(err, &exhausted) {
			attempts = exhausted.Attempts
		}
	}
	for _, a := range attempts {
		infrastructure.Count(ctx, s.metrics().SourceAttempts, 1, "outcome", attemptOutcome(a))
		if a.Err != nil {
			state.Progress.Note("%s: %v", a.Source, a.Err)
		}
	}

	if err != nil {
		return err
	}

	state.Load = result
	infrastructure.Count(ctx, s.metrics().RecordsLoaded, result.Dataset.Len(), "", "")
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"source":   result.Source,
		"records":  result.Dataset.Len(),
		"attempts": len(result.Attempts),
	})
	state.Progress.Note("Loaded %d records from %s", result.Dataset.Len(), result.Source)
	return nil
}

func (s *LoadStep) metrics() *infrastructure.PipelineMetrics {
	return orEmpty(s.options.Metrics)
}

func attemptOutcome(a loader.Attempt) string {
	switch {
	case a.Skipped:
		return "skipped"
	case a.Err != nil:
		return "failed"
	default:
		return "loaded"
	}
}

// CleanStep projects, filters, fills and enriches the raw dataset
type CleanStep struct {
	BaseStage
	cleaner    *dataprocessing.Cleaner
	summarizer *dataprocessing.Summarizer
	options    StageOptions
}

// NewCleanStep creates the clean step
func NewCleanStep(cleaner *dataprocessing.Cleaner, summarizer *dataprocessing.Summarizer, options StageOptions) *CleanStep {
	return &CleanStep{
		BaseStage:  NewBaseStage(StageIDClean, StageNameClean, StageIDLoad),
		cleaner:    cleaner,
		summarizer: summarizer,
		options:    options,
	}
}

// Execute implements Step
func (s *CleanStep) Execute(ctx context.Context, state *RunState) error {
	if state.Load == nil {
		return NewDependencyError(s.ID(), StageIDLoad)
	}

	ds, stats, err := s.cleaner.CleanWithStats(ctx, state.Load.Dataset)
	if err != nil {
		return err
	}

	m := orEmpty(s.options.Metrics)
	infrastructure.Count(ctx, m.RecordsExcluded, stats.ExcludedCount, "", "")
	infrastructure.Count(ctx, m.RecordsCleaned, stats.CleanedRecords, "", "")
	infrastructure.Count(ctx, m.ValuesFilled, stats.Fill.ForwardFilled, "method", "forward")
	infrastructure.Count(ctx, m.ValuesFilled, stats.Fill.ZeroFilled, "method", "zero")
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"records":  stats.CleanedRecords,
		"entities": stats.Entities,
		"excluded": stats.ExcludedCount,
	})

	summary := s.summarizer.Generate(ctx, ds, stats)
	summary.Source = state.Load.Source

	state.Dataset = ds
	state.Stats = stats
	state.Summary = &summary

	state.Progress.Note("Kept %d records for %d countries", stats.CleanedRecords, stats.Entities)
	state.Progress.Note("Filled %d missing values (%d forward, %d zero)",
		stats.Fill.Filled(), stats.Fill.ForwardFilled, stats.Fill.ZeroFilled)
	for _, gap := range stats.SchemaGaps {
		state.Progress.Note("Skipped %s: source has no input column", gap)
	}
	return nil
}

// RenderStep writes the trend and comparison workbooks. Individual
// rendering failures are kept in the run state and do not fail the step.
type RenderStep struct {
	BaseStage
	renderer    *analytics.Renderer
	paths       *config.Paths
	comparisons []string
	topN        int
	options     StageOptions
}

// NewRenderStep creates the render step
func NewRenderStep(renderer *analytics.Renderer, paths *config.Paths, comparisons []string, topN int, options StageOptions) *RenderStep {
	return &RenderStep{
		BaseStage:   NewBaseStage(StageIDRender, StageNameRender, StageIDClean),
		renderer:    renderer,
		paths:       paths,
		comparisons: append([]string(nil), comparisons...),
		topN:        topN,
		options:     options,
	}
}

// Execute implements Step
func (s *RenderStep) Execute(ctx context.Context, state *RunState) error {
	if state.Dataset == nil {
		return NewDependencyError(s.ID(), StageIDClean)
	}

	report := s.renderer.RenderAll(ctx, state.Dataset, s.paths, s.comparisons, s.topN)
	state.Render = report

	infrastructure.Count(ctx, orEmpty(s.options.Metrics).OutputsWritten, len(report.Written), "kind", "visualization")
	for _, failure := range report.Failures {
		infrastructure.RecordError(ctx, failure)
		state.Progress.Note("Failed: %v", failure)
	}
	for _, path := range report.Written {
		state.AddOutput(path)
		state.Progress.Note("Saved %s", path)
	}
	for _, metric := range report.Skipped {
		state.Progress.Note("Skipped comparison of %s: no data", metric)
	}
	return ctx.Err()
}

// ExportStep writes the cleaned dataset and the run summary
type ExportStep struct {
	BaseStage
	exporter   *exporter.DatasetExporter
	summarizer *dataprocessing.Summarizer
	paths      *config.Paths
	options    StageOptions
}

// NewExportStep creates the export step
func NewExportStep(exp *exporter.DatasetExporter, summarizer *dataprocessing.Summarizer, paths *config.Paths, options StageOptions) *ExportStep {
	return &ExportStep{
		BaseStage:  NewBaseStage(StageIDExport, StageNameExport, StageIDClean, StageIDRender),
		exporter:   exp,
		summarizer: summarizer,
		paths:      paths,
		options:    options,
	}
}

// Execute implements Step
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	if state.Dataset == nil {
		return NewDependencyError(s.ID(), StageIDClean)
	}

	m := orEmpty(s.options.Metrics)

	rows, err := s.exporter.Export(ctx, state.Dataset, s.paths.CleanDataCSV)
	state.ExportedRows = rows
	if err != nil {
		return err
	}
	state.AddOutput(s.paths.CleanDataCSV)
	infrastructure.Count(ctx, m.OutputsWritten, 1, "kind", "csv")
	state.Progress.Note("Saved %d rows to %s", rows, s.paths.CleanDataCSV)

	if state.Summary != nil {
		if err := s.summarizer.WriteJSON(ctx, s.paths.SummaryJSON, *state.Summary); err != nil {
			return err
		}
		state.AddOutput(s.paths.SummaryJSON)
		infrastructure.Count(ctx, m.OutputsWritten, 1, "kind", "summary")
	}
	return nil
}

// orEmpty lets steps count without nil checks when metrics are off
func orEmpty(m *infrastructure.PipelineMetrics) *infrastructure.PipelineMetrics {
	if m == nil {
		return &infrastructure.PipelineMetrics{}
	}
	return m
}

// BuildRegistry wires the four steps from configuration.
func BuildRegistry(cfg *config.Config, paths *config.Paths, options StageOptions) (*Registry, error) {
	cleaner, err := dataprocessing.NewCleaner(options.logger("cleaner"), dataprocessing.Options{
		Exclusions:      dataprocessing.DefaultExclusions(),
		ExtraExclusions: cfg.Cleaning.ExtraExclusions,
		RollingDays:     cfg.Cleaning.RollingDays,
	})
	if err != nil {
		return nil, err
	}

	renderer, err := analytics.NewRenderer(cfg.Render, options.logger("renderer"))
	if err != nil {
		return nil, err
	}

	summarizer := dataprocessing.NewSummarizer(options.logger("summarizer"), dataprocessing.DefaultSummarizerConfig())
	ld := loader.New(loader.Config{
		Sources:     cfg.Sources,
		HTTPTimeout: cfg.HTTPTimeout,
	}, options.logger("loader"))
	exp := exporter.NewDatasetExporter(options.logger("exporter"), exporter.DefaultExportOptions())

	registry := NewRegistry()
	steps := []Step{
		NewLoadStep(ld, options),
		NewCleanStep(cleaner, summarizer, options),
		NewRenderStep(renderer, paths, cfg.Analysis.Comparisons, cfg.Analysis.TopN, options),
		NewExportStep(exp, summarizer, paths, options),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, fmt.Errorf("register %s: %w", step.ID(), err)
		}
	}
	return registry, nil
}
