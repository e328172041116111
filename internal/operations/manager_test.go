package operations

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"covidtracker/internal/infrastructure"
)

func newRecordingTracer(t *testing.T) (*OperationTracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOperationTracer(tp.Tracer("test"), nil), exporter
}

func TestManager_Run(t *testing.T) {
	var calls []string
	tracer, spans := newRecordingTracer(t)
	var out bytes.Buffer

	load := newFakeStep(&calls, StageIDLoad)
	clean := newFakeStep(&calls, StageIDClean, StageIDLoad)
	clean.fn = func(ctx context.Context, state *RunState) error {
		state.AddOutput("cleaned")
		return nil
	}

	m := NewManager(registryOf(t, clean, load), tracer, quietLogger(), &out)
	ctx := infrastructure.WithRunID(context.Background(), "run-1")

	state, err := m.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{StageIDLoad, StageIDClean}, calls)
	assert.Equal(t, RunStatusCompleted, state.Status)
	assert.Equal(t, "run-1", state.RunID)
	assert.Equal(t, []string{"cleaned"}, state.Outputs)
	for _, id := range []string{StageIDLoad, StageIDClean} {
		st := state.GetStep(id)
		assert.Equal(t, StepStatusCompleted, st.Status, id)
		assert.NotNil(t, st.StartTime)
		assert.NotNil(t, st.EndTime)
	}

	assert.Contains(t, out.String(), "[1/2] Step load...")
	assert.Contains(t, out.String(), "[2/2] Step clean...")

	names := map[string]bool{}
	for _, s := range spans.GetSpans() {
		names[s.Name] = true
	}
	assert.True(t, names["tracker.run"])
	assert.True(t, names["stage.load"])
	assert.True(t, names["stage.clean"])
}

func TestManager_Run_StepFailureSkipsRest(t *testing.T) {
	var calls []string
	tracer, spans := newRecordingTracer(t)
	cause := errors.New("all sources failed")

	load := newFakeStep(&calls, StageIDLoad)
	load.fn = func(context.Context, *RunState) error { return cause }
	clean := newFakeStep(&calls, StageIDClean, StageIDLoad)
	export := newFakeStep(&calls, StageIDExport, StageIDClean)

	m := NewManager(registryOf(t, load, clean, export), tracer, quietLogger(), nil)
	state, err := m.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	step, ok := FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, StageIDLoad, step)

	require.NotNil(t, state)
	assert.Equal(t, RunStatusFailed, state.Status)
	assert.Equal(t, []string{StageIDLoad}, calls)
	assert.Equal(t, StepStatusFailed, state.GetStep(StageIDLoad).Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep(StageIDClean).Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep(StageIDExport).Status)

	for _, s := range spans.GetSpans() {
		if s.Name == "stage.load" {
			assert.Equal(t, codes.Error, s.Status.Code)
		}
	}
}

func TestManager_Run_Cancelled(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())

	first := newFakeStep(&calls, "first")
	first.fn = func(context.Context, *RunState) error {
		cancel()
		return nil
	}
	second := newFakeStep(&calls, "second", "first")

	m := NewManager(registryOf(t, first, second), nil, quietLogger(), nil)
	state, err := m.Run(ctx)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeCancellation, opErr.Type)
	assert.Equal(t, "second", opErr.Step)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, calls)
	assert.Equal(t, RunStatusFailed, state.Status)
}

func TestManager_Run_StepReturnsContextError(t *testing.T) {
	var calls []string
	step := newFakeStep(&calls, "slow")
	step.fn = func(context.Context, *RunState) error { return context.DeadlineExceeded }

	m := NewManager(registryOf(t, step), nil, quietLogger(), nil)
	_, err := m.Run(context.Background())

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeCancellation, opErr.Type)
}

func TestManager_Run_NoSteps(t *testing.T) {
	m := NewManager(NewRegistry(), nil, quietLogger(), nil)
	state, err := m.Run(context.Background())
	assert.Nil(t, state)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeValidation, opErr.Type)
}

func TestManager_Run_GeneratesRunID(t *testing.T) {
	var calls []string
	m := NewManager(registryOf(t, newFakeStep(&calls, "only")), nil, quietLogger(), nil)

	state, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, state.RunID)
}
