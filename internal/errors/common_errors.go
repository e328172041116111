package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// KindSourceUnavailable: a candidate source could not be reached or parsed.
	KindSourceUnavailable Kind = "SOURCE_UNAVAILABLE"
	// KindSchemaGap: an expected column is absent from the source.
	KindSchemaGap Kind = "SCHEMA_GAP"
	// KindDataQuality: a value could not be parsed or a metric could not be computed.
	KindDataQuality Kind = "DATA_QUALITY"
	// KindRendering: a single visualization failed.
	KindRendering Kind = "RENDERING"
	// KindExport: the cleaned dataset could not be written.
	KindExport Kind = "EXPORT"
	// KindConfig: configuration could not be loaded or is invalid.
	KindConfig Kind = "CONFIG"
)

// PipelineError represents a classified failure inside one pipeline stage.
type PipelineError struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Kind)
	if e.Stage != "" {
		prefix = fmt.Sprintf("[%s] %s:", e.Kind, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap allows errors.Is and errors.As to see the cause
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error
func New(kind Kind, stage, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Stage:   stage,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSourceError creates a source-unavailable error
func NewSourceError(source string, cause error) *PipelineError {
	return New(KindSourceUnavailable, "load", fmt.Sprintf("source %s unavailable", source), cause).
		WithContext("source", source)
}

// NewSchemaGapError creates a schema-gap error for a missing column
func NewSchemaGapError(stage, column string) *PipelineError {
	return New(KindSchemaGap, stage, fmt.Sprintf("column %q not present", column), nil).
		WithContext("column", column)
}

// NewDataQualityError creates a data-quality error
func NewDataQualityError(stage, message string, cause error) *PipelineError {
	return New(KindDataQuality, stage, message, cause)
}

// NewRenderingError creates a rendering error for one output
func NewRenderingError(output string, cause error) *PipelineError {
	return New(KindRendering, "render", fmt.Sprintf("failed to render %s", output), cause).
		WithContext("output", output)
}

// NewExportError creates an export error
func NewExportError(message string, cause error) *PipelineError {
	return New(KindExport, "export", message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *PipelineError {
	return New(KindConfig, "config", message, cause)
}

// KindOf returns the kind of the first PipelineError in err's chain.
func KindOf(err error) (Kind, bool) {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a PipelineError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
