package operations

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStep records its execution into calls and runs fn.
type fakeStep struct {
	BaseStage
	calls *[]string
	fn    func(ctx context.Context, state *RunState) error
}

func newFakeStep(calls *[]string, id string, deps ...string) *fakeStep {
	return &fakeStep{BaseStage: NewBaseStage(id, "Step "+id, deps...), calls: calls}
}

func (f *fakeStep) Execute(ctx context.Context, state *RunState) error {
	*f.calls = append(*f.calls, f.ID())
	if f.fn != nil {
		return f.fn(ctx, state)
	}
	return nil
}

func registryOf(t *testing.T, steps ...Step) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, s := range steps {
		require.NoError(t, r.Register(s))
	}
	return r
}

// writeSource writes a small OWID-shaped CSV with two countries and the
// World aggregate over ten days.
func writeSource(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,location,iso_code,continent,population,total_cases,new_cases,total_deaths,new_deaths\n")
	for _, loc := range []struct {
		name, iso, continent string
		population           int
	}{
		{"Testland", "TST", "Europe", 1000000},
		{"World", "OWID_WRL", "", 8000000000},
		{"Examplia", "EXA", "Asia", 500000},
	} {
		total := 0
		for day := 1; day <= 10; day++ {
			total += day * 10
			b.WriteString(strings.Join([]string{
				"2021-01-" + pad(day), loc.name, loc.iso, loc.continent,
				itoa(loc.population), itoa(total), itoa(day * 10), itoa(total / 50), "",
			}, ","))
			b.WriteString("\n")
		}
	}

	path := filepath.Join(dir, "owid.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func pad(d int) string {
	if d < 10 {
		return "0" + itoa(d)
	}
	return itoa(d)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
