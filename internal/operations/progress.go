package operations

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker narrates run progress as numbered step lines
type ProgressTracker struct {
	Total     int
	Current   int
	StartTime time.Time
	Message   string

	out io.Writer
	mu  sync.Mutex
}

// NewProgressTracker creates a tracker for total steps. A nil writer
// keeps the counters without printing.
func NewProgressTracker(out io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{
		Total:     total,
		StartTime: time.Now(),
		out:       out,
	}
}

// Begin announces the next step
func (p *ProgressTracker) Begin(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = name
	p.printf("[%d/%d] %s...\n", p.Current, p.Total, name)
}

// Note prints an indented detail line under the current step
func (p *ProgressTracker) Note(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("      "+format+"\n", args...)
}

// GetProgress returns the current progress state
func (p *ProgressTracker) GetProgress() (current, total int, percentage float64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Total > 0 {
		percentage = float64(p.Current) / float64(p.Total) * 100
	}
	return p.Current, p.Total, percentage, p.Message
}

// IsComplete returns true once every step has begun
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current >= p.Total
}

// GetElapsedTimeString returns a formatted elapsed time string
func (p *ProgressTracker) GetElapsedTimeString() string {
	return formatElapsed(time.Since(p.StartTime))
}

func formatElapsed(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%.0f seconds", elapsed.Seconds())
	case elapsed < time.Hour:
		return fmt.Sprintf("%.1f minutes", elapsed.Minutes())
	default:
		return fmt.Sprintf("%.1f hours", elapsed.Hours())
	}
}

func (p *ProgressTracker) printf(format string, args ...interface{}) {
	if p.out == nil {
		return
	}
	fmt.Fprintf(p.out, format, args...)
}
