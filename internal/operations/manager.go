package operations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"covidtracker/internal/infrastructure"
)

// Manager executes the registered steps of a run
type Manager struct {
	registry *Registry
	tracer   *OperationTracer
	logger   *slog.Logger
	progress io.Writer
}

// NewManager creates a manager. progress receives the numbered step lines
// and may be nil.
func NewManager(registry *Registry, tracer *OperationTracer, logger *slog.Logger, progress io.Writer) *Manager {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if tracer == nil {
		tracer = NewOperationTracer(nil, nil)
	}
	return &Manager{
		registry: registry,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "operations"),
		progress: progress,
	}
}

// Run executes every step in dependency order. The returned state is
// non-nil whenever the steps could be ordered, including on failure.
func (m *Manager) Run(ctx context.Context) (*RunState, error) {
	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, NewValidationError("", "no steps registered")
	}

	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	state := NewRunState(runID, steps)
	state.Progress = NewProgressTracker(m.progress, len(steps))

	ctx, span := m.tracer.TraceRun(ctx, runID, len(steps))
	defer span.End()

	m.logRunStart(ctx, runID, steps)
	state.Start()

	for _, step := range steps {
		if err := m.executeStep(ctx, step, state); err != nil {
			state.Fail()
			m.tracer.RecordRunResult(span, state, err)
			m.logRunComplete(ctx, state)
			return state, err
		}
	}

	state.Complete()
	m.tracer.RecordRunResult(span, state, nil)
	m.logRunComplete(ctx, state)
	return state, nil
}

func (m *Manager) executeStep(ctx context.Context, step Step, state *RunState) error {
	stepState := state.GetStep(step.ID())

	if err := ctx.Err(); err != nil {
		cancelErr := NewCancellationError(step.ID(), err)
		stepState.Fail(cancelErr)
		return cancelErr
	}

	stepState.Start()
	state.Progress.Begin(step.Name())
	m.logStageStart(ctx, state.RunID, step.ID())

	stepCtx, span := m.tracer.TraceStage(ctx, state.RunID, step)
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	m.tracer.RecordStageResult(stepCtx, span, step.ID(), duration, err)
	span.End()

	if err != nil {
		stepState.Fail(err)
		m.logStageError(ctx, state.RunID, step.ID(), err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NewCancellationError(step.ID(), err)
		}
		return NewExecutionError(step.ID(), err)
	}

	stepState.Complete("")
	m.logStageComplete(ctx, state.RunID, step.ID(), duration)
	return nil
}
