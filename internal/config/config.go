package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable.
const EnvPrefix = "TRACKER"

// Config represents the complete application configuration
type Config struct {
	Sources     []string        `yaml:"sources" envconfig:"SOURCES" validate:"required,min=1,dive,required"`
	OutputDir   string          `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	HTTPTimeout time.Duration   `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT" validate:"gt=0"`
	Cleaning    CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Analysis    AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Render      RenderConfig    `yaml:"render" envconfig:"RENDER"`
	Logging     LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry   TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// CleaningConfig controls the cleaner
type CleaningConfig struct {
	// ExtraExclusions extends the fixed set of aggregate entities.
	ExtraExclusions []string `yaml:"extra_exclusions" envconfig:"EXTRA_EXCLUSIONS"`
	RollingDays     int      `yaml:"rolling_days" envconfig:"ROLLING_DAYS" validate:"min=1,max=90"`
}

// AnalysisConfig controls the country comparisons
type AnalysisConfig struct {
	TopN        int      `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	Comparisons []string `yaml:"comparisons" envconfig:"COMPARISONS" validate:"dive,required"`
}

// RenderConfig is the display configuration handed to the renderer
type RenderConfig struct {
	Theme          string `yaml:"theme" envconfig:"THEME" validate:"oneof=viridis default dark"`
	ColumnWidth    int    `yaml:"column_width" envconfig:"COLUMN_WIDTH" validate:"gt=0,lte=255"`
	FloatPrecision int    `yaml:"float_precision" envconfig:"FLOAT_PRECISION" validate:"min=0,max=10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls tracing and the metrics text file
type TelemetryConfig struct {
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment. An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; no default tags here so file
	// values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return validator.New().Struct(c)
}

// Paths returns the output locations derived from OutputDir.
func (c *Config) Paths() *Paths {
	return NewPaths(c.OutputDir)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Sources:     DefaultSources(),
		OutputDir:   DefaultOutputDir,
		HTTPTimeout: DefaultHTTPTimeout,
		Cleaning: CleaningConfig{
			RollingDays: DefaultRollingDays,
		},
		Analysis: AnalysisConfig{
			TopN:        DefaultTopN,
			Comparisons: DefaultComparisons(),
		},
		Render: DefaultRenderConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "console",
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
		},
	}
}

// DefaultRenderConfig returns the display defaults
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Theme:          DefaultRenderTheme,
		ColumnWidth:    DefaultColumnWidth,
		FloatPrecision: DefaultFloatDigits,
	}
}
