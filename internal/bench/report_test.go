package bench

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evosocial/internal/flowshop"
	"evosocial/internal/opt"
)

func sampleOutcomes() []Outcome {
	return []Outcome{
		{
			Run: 0,
			Result: opt.Result{
				Makespan:      110,
				BestIteration: 2,
				Convergence: []opt.GenerationRecord{
					{Generation: 1, BestMakespan: 120, Evaluations: 10},
					{Generation: 2, BestMakespan: 110, Evaluations: 20},
				},
			},
			BestError: 10,
			PopError:  12.5,
		},
		{
			Run: 1,
			Result: opt.Result{
				Makespan:      100,
				BestIteration: 1,
				Convergence: []opt.GenerationRecord{
					{Generation: 1, BestMakespan: 100, Evaluations: 10},
				},
			},
			BestError: 0,
			PopError:  3.25,
		},
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleOutcomes()))

	want := " 0 10.00 12.50 110.00    2\n" +
		" 1  0.00  3.25 100.00    1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDetail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, sampleOutcomes()))

	want := "   1  120.00 10\n" +
		"   2  110.00 20\n" +
		"   1  100.00 10\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	inst := &flowshop.Instance{Name: "car1"}

	files, err := SaveResults(dir, "EVO", inst, sampleOutcomes(), 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resumen_car1.txt"), files.Summary)
	assert.Equal(t, filepath.Join(dir, "detalle_car1.txt"), files.Detail)
	assert.Equal(t, filepath.Join(dir, "tiempo_ejecucion_EVO_car1.txt"), files.Timing)

	timing, err := os.ReadFile(files.Timing)
	require.NoError(t, err)
	assert.Equal(t, "instance: car1\nalgorithm: EVO\nseconds: 1.500\n", string(timing))

	for _, p := range []string{files.Summary, files.Detail} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.csv")
	records := []Record{{Algo: "EVO", Jobs: 20, Machines: 5, Runs: 3, MakespanBest: 1278, MakespanMean: 1280.5}}
	require.NoError(t, WriteCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "algo", rows[0][0])
	assert.Equal(t, []string{"EVO", "20", "5", "3"}, rows[1][:4])
	assert.Equal(t, "1278.000000", rows[1][7])
	assert.Equal(t, "1280.500000", rows[1][8])
}
