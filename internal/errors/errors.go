// Package errors classifies failures of the tracking pipeline.
//
// Every stage reports failures as *PipelineError so the caller can decide
// what is fatal: source exhaustion stops the run, schema gaps and single
// rendering failures are logged and tolerated.
package errors

import (
	stderrors "errors"
)

// Sentinel errors shared across stages.
var (
	ErrNoSources      = stderrors.New("no data sources configured")
	ErrEmptyDataset   = stderrors.New("dataset is empty")
	ErrUnknownMetric  = stderrors.New("unknown metric")
	ErrInvalidOptions = stderrors.New("invalid options")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join wraps multiple errors into one.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
