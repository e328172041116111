package operations

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 2)

	assert.False(t, p.IsComplete())

	p.Begin("Loading COVID-19 data")
	p.Note("Loaded %d records from %s", 30, "owid.csv")

	current, total, pct, msg := p.GetProgress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 2, total)
	assert.InDelta(t, 50.0, pct, 1e-9)
	assert.Equal(t, "Loading COVID-19 data", msg)

	p.Begin("Cleaning and enriching data")
	assert.True(t, p.IsComplete())

	assert.Equal(t,
		"[1/2] Loading COVID-19 data...\n"+
			"      Loaded 30 records from owid.csv\n"+
			"[2/2] Cleaning and enriching data...\n",
		out.String())
}

func TestProgressTracker_NilWriter(t *testing.T) {
	p := NewProgressTracker(nil, 1)
	assert.NotPanics(t, func() {
		p.Begin("step")
		p.Note("detail")
	})
	assert.True(t, p.IsComplete())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "42 seconds", formatElapsed(42*time.Second))
	assert.Equal(t, "1.5 minutes", formatElapsed(90*time.Second))
	assert.Equal(t, "2.0 hours", formatElapsed(2*time.Hour))
}
