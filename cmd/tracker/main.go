// Command tracker downloads the OWID COVID-19 dataset, cleans it, renders
// the trend and country comparison workbooks and writes the cleaned CSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covidtracker/internal/config"
	"covidtracker/internal/infrastructure"
	"covidtracker/internal/loader"
	"covidtracker/internal/operations"
	"covidtracker/pkg/contracts"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, "", os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one tracker run and returns the process exit code.
func run(ctx context.Context, configPath string, out io.Writer) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return exitFailure
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(out, "Warning: logger setup failed, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths := cfg.Paths()
	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths, logger)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Failed to initialize telemetry")
		fmt.Fprintf(out, "Error: %v\n", err)
		return exitFailure
	}
	metrics, err := infrastructure.CreatePipelineMetrics(tel.Meter)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Failed to create pipeline metrics")
		shutdownTelemetry(tel, logger)
		return exitFailure
	}

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting tracker",
		slog.String("version", contracts.GetFullVersionString()),
		slog.String("output_dir", paths.OutputDir),
		slog.Any("sources", cfg.Sources))

	registry, err := operations.BuildRegistry(cfg, paths, operations.StageOptions{
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		tel.DiscardMetrics()
		shutdownTelemetry(tel, logger)
		return exitFailure
	}

	fmt.Fprintln(out, contracts.GetVersionString())
	manager := operations.NewManager(registry, operations.NewOperationTracer(tel.Tracer, metrics), logger, out)
	state, runErr := manager.Run(ctx)

	if step, _ := operations.FailedStep(runErr); step == operations.StageIDLoad {
		// nothing was produced; leave the output directory untouched
		tel.DiscardMetrics()
	}
	shutdownTelemetry(tel, logger)

	if runErr != nil {
		report(out, runErr)
		return exitFailure
	}

	if state.Summary != nil {
		fmt.Fprintln(out)
		for _, line := range state.Summary.Lines() {
			fmt.Fprintln(out, line)
		}
	}
	if n := len(state.Render.Failures); n > 0 {
		fmt.Fprintf(out, "Warning: %d visualization(s) could not be rendered\n", n)
	}
	fmt.Fprintf(out, "Done in %s. Outputs written to %s\n", state.Duration().Round(time.Millisecond), paths.OutputDir)
	return exitOK
}

// report explains a failed run on the console.
func report(out io.Writer, err error) {
	var exhausted *loader.SourcesExhaustedError
	if errors.As(err, &exhausted) {
		fmt.Fprintln(out, "Error: could not load data from any source.")
		for _, a := range exhausted.Attempts {
			reason := "not found"
			if a.Err != nil && !a.Skipped {
				reason = a.Err.Error()
			}
			fmt.Fprintf(out, "  - %s: %s\n", a.Source, reason)
		}
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
}

func shutdownTelemetry(tel *infrastructure.Telemetry, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
	}
}
