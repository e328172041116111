package operations

import (
	"time"

	"covidtracker/internal/analytics"
	"covidtracker/internal/dataprocessing"
	"covidtracker/internal/loader"
	"covidtracker/pkg/contracts/domain"
)

// RunState carries the results of each step to the next.
type RunState struct {
	RunID     string
	Status    RunStatus
	StartTime time.Time
	EndTime   time.Time
	Steps     map[string]*StepState
	Order     []string

	// Progress narrates step details; never nil during a run.
	Progress *ProgressTracker

	Load         *loader.Result
	Dataset      *domain.Dataset
	Stats        dataprocessing.Statistics
	Summary      *dataprocessing.Summary
	Render       analytics.RenderReport
	ExportedRows int
	Outputs      []string
}

// NewRunState creates the state for the given ordered steps
func NewRunState(runID string, steps []Step) *RunState {
	s := &RunState{
		RunID:    runID,
		Status:   RunStatusPending,
		Steps:    make(map[string]*StepState, len(steps)),
		Progress: NewProgressTracker(nil, len(steps)),
	}
	for _, step := range steps {
		s.Steps[step.ID()] = NewStepState(step.ID(), step.Name())
		s.Order = append(s.Order, step.ID())
	}
	return s
}

// Start marks the run as running
func (s *RunState) Start() {
	s.StartTime = time.Now()
	s.Status = RunStatusRunning
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.EndTime = time.Now()
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed and skips every step that has not run
func (s *RunState) Fail() {
	s.EndTime = time.Now()
	s.Status = RunStatusFailed
	for _, id := range s.Order {
		if st := s.Steps[id]; st.Status == StepStatusPending {
			st.Skip("previous step failed")
		}
	}
}

// GetStep returns the state of a step, or nil
func (s *RunState) GetStep(id string) *StepState {
	return s.Steps[id]
}

// Duration returns the run duration
func (s *RunState) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// AddOutput records a written file
func (s *RunState) AddOutput(path string) {
	s.Outputs = append(s.Outputs, path)
}
