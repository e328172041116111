package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"covidtracker/internal/config"
	"covidtracker/pkg/contracts"
)

const (
	ServiceName    = "covid-tracker"
	ServiceVersion = contracts.Version
	MeterName      = "covidtracker"
)

// Telemetry holds the tracer and meter used by one run, and knows where to
// flush them.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	traceFile   *os.File
	metricsPath string
}

// InitializeTelemetry sets up tracing into paths.TraceFile and metrics on a
// private Prometheus registry that Shutdown writes to paths.MetricsFile.
// Disabled signals get no-op implementations, so callers never nil-check.
func InitializeTelemetry(cfg config.TelemetryConfig, paths *config.Paths, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	t := &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	if cfg.EnableTracing {
		if err := t.initializeTracing(paths.TraceFile, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := t.initializeMetrics(paths.MetricsFile, res); err != nil {
			t.closeTraceFile()
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return t, nil
}

// initializeTracing writes spans synchronously to a JSON file
func (t *Telemetry) initializeTracing(path string, res *resource.Resource) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)

	t.traceFile = file
	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	return nil
}

// initializeMetrics bridges the otel meter onto a Prometheus registry
func (t *Telemetry) initializeMetrics(path string, res *resource.Resource) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.Registry = registry
	t.MeterProvider = mp
	t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
	t.metricsPath = path
	return nil
}

// DiscardMetrics stops Shutdown from writing the metrics file. Used when a
// run ends before producing any output.
func (t *Telemetry) DiscardMetrics() {
	t.metricsPath = ""
}

// Shutdown flushes metrics to the text file and closes the trace file.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.Registry != nil && t.metricsPath != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsPath), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsPath, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics flush: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if err := t.closeTraceFile(); err != nil {
		errs = append(errs, fmt.Errorf("trace file close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

func (t *Telemetry) closeTraceFile() error {
	if t.traceFile == nil {
		return nil
	}
	err := t.traceFile.Close()
	t.traceFile = nil
	return err
}

// stageDurationBuckets are in seconds, from a quick clean to a slow download.
var stageDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30}

// PipelineMetrics holds the instruments recorded during a run
type PipelineMetrics struct {
	SourceAttempts  metric.Int64Counter
	RecordsLoaded   metric.Int64Counter
	RecordsExcluded metric.Int64Counter
	RecordsCleaned  metric.Int64Counter
	ValuesFilled    metric.Int64Counter
	OutputsWritten  metric.Int64Counter
	StageErrors     metric.Int64Counter
	StageDuration   metric.Float64Histogram
}

// CreatePipelineMetrics creates application-specific metrics. Names use
// underscores so the text file stays in the classic exposition format.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var (
		m   PipelineMetrics
		err error
	)

	if m.SourceAttempts, err = meter.Int64Counter("tracker_source_attempts",
		metric.WithDescription("Data source attempts by outcome")); err != nil {
		return nil, err
	}
	if m.RecordsLoaded, err = meter.Int64Counter("tracker_records_loaded",
		metric.WithDescription("Raw rows read from the winning source")); err != nil {
		return nil, err
	}
	if m.RecordsExcluded, err = meter.Int64Counter("tracker_records_excluded",
		metric.WithDescription("Rows dropped as aggregate pseudo-entities")); err != nil {
		return nil, err
	}
	if m.RecordsCleaned, err = meter.Int64Counter("tracker_records_cleaned",
		metric.WithDescription("Rows in the cleaned dataset")); err != nil {
		return nil, err
	}
	if m.ValuesFilled, err = meter.Int64Counter("tracker_values_filled",
		metric.WithDescription("Missing numeric values filled, by method")); err != nil {
		return nil, err
	}
	if m.OutputsWritten, err = meter.Int64Counter("tracker_outputs_written",
		metric.WithDescription("Output files written, by kind")); err != nil {
		return nil, err
	}
	if m.StageErrors, err = meter.Int64Counter("tracker_stage_errors",
		metric.WithDescription("Errors raised per stage")); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram("tracker_stage_duration",
		metric.WithDescription("Stage execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageDurationBuckets...)); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordStage records the duration and outcome of one stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("success", err == nil),
	)
	m.StageDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.StageErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

// Count adds n to counter with a single string attribute.
func Count(ctx context.Context, counter metric.Int64Counter, n int, key, value string) {
	if counter == nil || n == 0 {
		return
	}
	if key == "" {
		counter.Add(ctx, int64(n))
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(attribute.String(key, value)))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}

	span.SetAttributes(attrs...)
}
