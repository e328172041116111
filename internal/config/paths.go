package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every output location of a run.
// This is the single source of truth for output file paths.
type Paths struct {
	OutputDir       string
	GlobalTrendsXLS string
	CleanDataCSV    string
	MetricsFile     string
	TraceFile       string
	SummaryJSON     string
}

// NewPaths derives all output locations from the output directory.
func NewPaths(outputDir string) *Paths {
	return &Paths{
		OutputDir:       outputDir,
		GlobalTrendsXLS: filepath.Join(outputDir, GlobalTrendsFile),
		CleanDataCSV:    filepath.Join(outputDir, CleanDataFile),
		MetricsFile:     filepath.Join(outputDir, MetricsFile),
		TraceFile:       filepath.Join(outputDir, TraceFile),
		SummaryJSON:     filepath.Join(outputDir, SummaryFile),
	}
}

// ComparisonPath returns the workbook path for a comparison metric.
func (p *Paths) ComparisonPath(metric string) string {
	return filepath.Join(p.OutputDir, ComparisonFilePrefix+metric+ComparisonFileExt)
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", p.OutputDir, err)
	}

	slog.Default().Debug("Ensured directory exists",
		slog.String("directory", p.OutputDir))

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
