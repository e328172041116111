package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"execution", NewExecutionError("export", cause), "[execution] export: step execution failed: disk full"},
		{"validation without step", NewValidationError("", "no steps registered"), "[validation] no steps registered"},
		{"dependency", NewDependencyError("clean", "load"), "[dependency] clean: requires step load"},
		{"cancellation", NewCancellationError("render", context.Canceled), "[cancellation] render: run cancelled: context canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	var nilErr *OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewExecutionError("load", cause)
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, NewCancellationError("load", context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestFailedStep(t *testing.T) {
	step, ok := FailedStep(NewExecutionError("render", errors.New("x")))
	assert.True(t, ok)
	assert.Equal(t, "render", step)

	_, ok = FailedStep(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FailedStep(NewValidationError("", "empty"))
	assert.False(t, ok)
}
