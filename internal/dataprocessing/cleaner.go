package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	apperrors "covidtracker/internal/errors"
	"covidtracker/internal/infrastructure"
	"covidtracker/pkg/contracts/domain"
)

const stageClean = "clean"

// Cleaner turns a raw dataset into the cleaned, enriched dataset.
type Cleaner struct {
	logger     *slog.Logger
	options    Options
	exclusions map[string]bool
	filler     *ForwardFillProcessor
	validate   *validator.Validate
}

// NewCleaner creates a cleaner. Zero options fall back to DefaultOptions.
func NewCleaner(logger *slog.Logger, options Options) (*Cleaner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Exclusions == nil {
		options.Exclusions = DefaultExclusions()
	}
	if options.RollingDays == 0 {
		options.RollingDays = 7
	}
	if err := options.Validate(); err != nil {
		return nil, apperrors.NewConfigError("cleaning options", err)
	}

	return &Cleaner{
		logger:     logger,
		options:    options,
		exclusions: options.exclusionSet(),
		filler:     NewForwardFillProcessor(),
		validate:   validator.New(),
	}, nil
}

// Clean runs projection, entity filtering, gap filling, enrichment and
// time bucketing. The raw dataset is not modified.
func (c *Cleaner) Clean(ctx context.Context, raw *domain.RawDataset) (*domain.Dataset, error) {
	ds, _, err := c.CleanWithStats(ctx, raw)
	return ds, err
}

// CleanWithStats is Clean plus run statistics.
func (c *Cleaner) CleanWithStats(ctx context.Context, raw *domain.RawDataset) (*domain.Dataset, Statistics, error) {
	var stats Statistics
	if raw == nil {
		return nil, stats, apperrors.NewDataQualityError(stageClean, "no raw dataset", apperrors.ErrEmptyDataset)
	}
	stats.RawRecords = raw.Len()

	schema := domain.ResolveSchema(raw.Header)
	if !schema.Has(domain.FieldLocation) {
		return nil, stats, apperrors.NewSchemaGapError(stageClean, domain.FieldLocation.String())
	}

	c.logger.InfoContext(ctx, "Cleaning dataset",
		slog.Int("raw_records", stats.RawRecords),
		slog.Int("recognized_columns", len(schema.Fields())),
		slog.Int("source_columns", len(raw.Header)))

	records, errs := projectRows(schema, raw.Rows)
	if len(errs) > 0 {
		c.logger.ErrorContext(ctx, "Unparseable numeric cells",
			slog.Int("count", len(errs)),
			slog.String("first", errs[0].Error()))
		return nil, stats, apperrors.NewDataQualityError(stageClean,
			fmt.Sprintf("%d unparseable numeric cells", len(errs)), errors.Join(errs...))
	}

	kept := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if c.exclusions[r.Location] {
			stats.ExcludedCount++
			continue
		}
		if err := c.validate.Struct(r); err != nil {
			errs = append(errs, fmt.Errorf("record dated %s: %w", r.Date.Format("2006-01-02"), err))
			continue
		}
		kept = append(kept, r)
	}
	if len(errs) > 0 {
		return nil, stats, apperrors.NewDataQualityError(stageClean,
			fmt.Sprintf("%d invalid records", len(errs)), errors.Join(errs...))
	}

	groups := GroupByEntity(kept)
	stats.Entities = len(groups)
	stats.Fill = c.filler.FillMissingDataWithStats(groups, schema.NumericFields())

	metrics, gaps := availableMetrics(schema)
	for _, m := range domain.DerivedMetrics() {
		missing, ok := gaps[m]
		if !ok {
			continue
		}
		gapErr := apperrors.NewSchemaGapError(stageClean, missing.String()).
			WithContext("metric", string(m))
		infrastructure.WithError(c.logger, gapErr).WarnContext(ctx, "Derived metric omitted",
			slog.String("metric", string(m)))
		stats.SchemaGaps = append(stats.SchemaGaps, string(m))
	}

	enricher := NewEnricher(c.options.RollingDays, metrics)
	clean := make([]domain.CleanRecord, 0, len(kept))
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("clean cancelled: %w", err)
		}
		clean = append(clean, enricher.Enrich(g)...)
	}
	stats.CleanedRecords = len(clean)

	c.logger.InfoContext(ctx, "Dataset cleaned",
		slog.Int("entities", stats.Entities),
		slog.Int("records", stats.CleanedRecords),
		slog.Int("excluded", stats.ExcludedCount),
		slog.Int("forward_filled", stats.Fill.ForwardFilled),
		slog.Int("zero_filled", stats.Fill.ZeroFilled))

	return domain.NewDataset(schema, metrics, clean), stats, nil
}
