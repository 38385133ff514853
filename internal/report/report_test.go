package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"evosocial/internal/bench"
	"evosocial/internal/opt"
)

func outcomes() []bench.Outcome {
	return []bench.Outcome{
		{Run: 0, BestError: 4, PopError: 6, Result: opt.Result{Makespan: 104, BestIteration: 2, Convergence: []opt.GenerationRecord{
			{Generation: 1, BestMakespan: 110, Evaluations: 10},
			{Generation: 2, BestMakespan: 104, Evaluations: 20},
			{Generation: 3, BestMakespan: 104, Evaluations: 30},
		}}},
		{Run: 1, BestError: 2, PopError: 5, Result: opt.Result{Makespan: 102, BestIteration: 1, Convergence: []opt.GenerationRecord{
			{Generation: 1, BestMakespan: 102, Evaluations: 10},
			{Generation: 2, BestMakespan: 102, Evaluations: 20},
		}}},
	}
}

func TestMean(t *testing.T) {
	m := Mean("mean", FromOutcomes(outcomes()))
	assert.Equal(t, "mean", m.Label)
	assert.Equal(t, plotter.XYs{{X: 1, Y: 106}, {X: 2, Y: 103}}, m.Points)

	assert.Empty(t, Mean("none", nil).Points)
}

func TestPlotConvergence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.png")
	require.NoError(t, PlotConvergence(path, "car1", FromOutcomes(outcomes())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	assert.Error(t, PlotConvergence(path, "empty", nil))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, "car1", outcomes()))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Best error (%)")
	assert.Contains(t, html, "Mean best makespan")

	assert.Error(t, RenderSummary(&buf, "empty", nil))
}
