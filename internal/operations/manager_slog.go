package operations

import (
	"context"
	"log/slog"
	"time"

	"covidtracker/internal/infrastructure"
)

// logRunStart logs the start of a run
func (m *Manager) logRunStart(ctx context.Context, runID string, steps []Step) {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	m.logger.InfoContext(ctx, "run_start",
		slog.String("run_id", runID),
		slog.Any("steps", ids))
}

// logRunComplete logs the end of a run
func (m *Manager) logRunComplete(ctx context.Context, state *RunState) {
	m.logger.InfoContext(ctx, "run_complete",
		slog.String("run_id", state.RunID),
		slog.String("status", string(state.Status)),
		slog.Int("outputs", len(state.Outputs)),
		slog.Duration("duration", state.Duration()))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, runID, stageID string) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("run_id", runID),
		slog.String("step", stageID))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, runID, stageID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("run_id", runID),
		slog.String("step", stageID),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, runID, stageID string, err error) {
	infrastructure.WithError(m.logger, err).ErrorContext(ctx, "stage_error",
		slog.String("run_id", runID),
		slog.String("step", stageID))
}
