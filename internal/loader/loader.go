package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "covidtracker/internal/errors"
	"covidtracker/internal/infrastructure"
	"covidtracker/pkg/contracts/domain"
)

// SourceKind tells how a candidate is fetched.
type SourceKind string

const (
	SourceLocal  SourceKind = "local"
	SourceRemote SourceKind = "remote"
)

// Config configures a Loader.
type Config struct {
	Sources     []string
	HTTPTimeout time.Duration
	// HTTPClient overrides the default client; mainly for tests.
	HTTPClient *http.Client
}

// Attempt records the outcome of trying one source.
type Attempt struct {
	Source  string
	Kind    SourceKind
	Skipped bool // local file not present
	Err     error
}

// Result is a successful load.
type Result struct {
	Dataset  *domain.RawDataset
	Source   string
	Attempts []Attempt
}

// SourcesExhaustedError is returned when no candidate produced a dataset.
type SourcesExhaustedError struct {
	Attempts []Attempt
}

// Error implements the error interface
func (e *SourcesExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "all %d data sources failed", len(e.Attempts))
	for _, a := range e.Attempts {
		reason := "not found"
		if a.Err != nil {
			reason = a.Err.Error()
		}
		fmt.Fprintf(&b, "; %s: %s", a.Source, reason)
	}
	return b.String()
}

// Unwrap exposes each attempt's error
func (e *SourcesExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Loader tries candidate sources in order.
type Loader struct {
	sources []string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a loader
func New(cfg Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	sources := make([]string, len(cfg.Sources))
	copy(sources, cfg.Sources)

	return &Loader{sources: sources, client: client, logger: logger}
}

// Load returns the first source that parses. It does not retry within a
// source and does not reconcile mirrors.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	if len(l.sources) == 0 {
		return nil, apperrors.ErrNoSources
	}

	var attempts []Attempt
	for _, source := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled: %w", err)
		}

		attempt := Attempt{Source: source, Kind: kindOf(source)}
		raw, err := l.loadOne(ctx, &attempt)
		attempts = append(attempts, attempt)
		if err != nil {
			continue
		}

		l.logger.InfoContext(ctx, "Successfully loaded data",
			slog.String("source", source),
			slog.Int("records", raw.Len()))

		return &Result{Dataset: raw, Source: source, Attempts: attempts}, nil
	}

	l.logger.ErrorContext(ctx, "All data sources failed",
		slog.Int("attempts", len(attempts)))

	return nil, &SourcesExhaustedError{Attempts: attempts}
}

func (l *Loader) loadOne(ctx context.Context, attempt *Attempt) (*domain.RawDataset, error) {
	var (
		raw *domain.RawDataset
		err error
	)

	switch attempt.Kind {
	case SourceRemote:
		l.logger.InfoContext(ctx, "Attempting download", slog.String("source", attempt.Source))
		raw, err = l.loadRemote(ctx, attempt.Source)
	default:
		if _, statErr := os.Stat(attempt.Source); statErr != nil {
			attempt.Skipped = true
			attempt.Err = apperrors.NewSourceError(attempt.Source, statErr)
			l.logger.DebugContext(ctx, "Local source not present", slog.String("source", attempt.Source))
			return nil, attempt.Err
		}
		l.logger.InfoContext(ctx, "Loading local file", slog.String("source", attempt.Source))
		raw, err = loadLocal(attempt.Source)
	}

	if err != nil {
		attempt.Err = apperrors.NewSourceError(attempt.Source, err)
		infrastructure.WithError(l.logger, err).WarnContext(ctx, "Failed to load source",
			slog.String("source", attempt.Source))
		return nil, attempt.Err
	}
	return raw, nil
}

func loadLocal(path string) (*domain.RawDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parse(path, file)
}

func (l *Loader) loadRemote(ctx context.Context, url string) (*domain.RawDataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	return parse(url, resp.Body)
}

func parse(source string, r io.Reader) (*domain.RawDataset, error) {
	if strings.EqualFold(filepath.Ext(stripQuery(source)), ".xlsx") {
		// excelize needs the whole archive
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read workbook: %w", err)
		}
		return ParseWorkbook(bytes.NewReader(data))
	}
	return ParseCSV(r)
}

func kindOf(source string) SourceKind {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceRemote
	}
	return SourceLocal
}

func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}
