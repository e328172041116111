package operations

import (
	"context"
)

// Step represents a single step of the run
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Dependencies returns the IDs of steps that must complete first
	Dependencies() []string

	// Execute runs the Step, reading and writing the shared run state
	Execute(ctx context.Context, state *RunState) error
}

// BaseStage provides the identity part of a Step
type BaseStage struct {
	id           string
	name         string
	dependencies []string
}

// NewBaseStage creates a new base stage
func NewBaseStage(id, name string, dependencies ...string) BaseStage {
	return BaseStage{id: id, name: name, dependencies: dependencies}
}

// ID returns the step ID
func (b BaseStage) ID() string { return b.id }

// Name returns the step name
func (b BaseStage) Name() string { return b.name }

// Dependencies returns the step dependencies
func (b BaseStage) Dependencies() []string {
	return append([]string(nil), b.dependencies...)
}
