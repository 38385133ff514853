package analysis

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	ranks, ties := rank([]float64{3, 1, 1, 2})
	assert.Equal(t, []float64{4, 1.5, 1.5, 3}, ranks)
	assert.Equal(t, 6.0, ties)
}

func TestMannWhitneyU(t *testing.T) {
	p := MannWhitneyU([]float64{1, 2, 3, 4, 5}, []float64{6, 7, 8, 9, 10})
	assert.InDelta(t, 0.012186, p, 1e-5)

	// Симметрия
	assert.InDelta(t, p, MannWhitneyU([]float64{6, 7, 8, 9, 10}, []float64{1, 2, 3, 4, 5}), 1e-12)

	assert.Equal(t, 1.0, MannWhitneyU([]float64{5, 5, 5}, []float64{5, 5}))
	assert.Equal(t, 1.0, MannWhitneyU(nil, []float64{1}))
}

func TestWilcoxonSignedRank(t *testing.T) {
	x := []float64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	y := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	assert.InDelta(t, 0.005062, WilcoxonSignedRank(x, y), 1e-5)

	// Разности 1, 1, 2, -3 и одна нулевая.
	p := WilcoxonSignedRank([]float64{2, 2, 3, 1, 7}, []float64{1, 1, 1, 4, 7})
	assert.InDelta(t, 0.712702, p, 1e-5)

	assert.Equal(t, 1.0, WilcoxonSignedRank([]float64{1, 2}, []float64{1, 2}))
	assert.Panics(t, func() { WilcoxonSignedRank([]float64{1}, nil) })
}

func results(name string, makespans []float64, gens []int, seconds float64) InstanceResults {
	r := InstanceResults{Name: name}
	for i, m := range makespans {
		r.Runs = append(r.Runs, RunSummary{Run: i, BestMakespan: m, GenerationOfBest: gens[i]})
	}
	if seconds > 0 {
		r.Timing = &Timing{Instance: name, Seconds: seconds}
	}
	return r
}

func TestCompare(t *testing.T) {
	a := results("car1", []float64{110, 112, 114, 116, 118}, []int{10, 10, 10, 10, 10}, 10)
	b := results("car1", []float64{100, 101, 102, 103, 104}, []int{5, 5, 5, 5, 5}, 5)

	c := Compare("GA", a, "EVO", b)
	assert.Equal(t, "car1", c.Instance)
	assert.InDelta(t, (114.0-102.0)/114.0*100, c.MeanImprovement, 1e-9)
	assert.InDelta(t, (110.0-100.0)/110.0*100, c.BestImprovement, 1e-9)
	assert.InDelta(t, 50, c.GenerationImprovement, 1e-9)
	assert.True(t, c.HasTime)
	assert.InDelta(t, 50, c.TimeImprovement, 1e-9)
	assert.Equal(t, "EVO", c.Winner)
	assert.Equal(t, "EVO", c.FasterName)
	assert.True(t, c.Significant)
	assert.Less(t, c.PMannWhitney, Alpha)

	// Разная длина выборок: Уилкоксон не применяется.
	short := results("car1", []float64{100, 101}, []int{1, 1}, 0)
	c = Compare("GA", a, "EVO", short)
	assert.Equal(t, 1.0, c.PWilcoxon)
	assert.False(t, c.HasTime)
	assert.Empty(t, c.FasterName)

	same := Compare("GA", a, "EVO", a)
	assert.False(t, same.Significant)
	assert.Equal(t, "GA", same.Winner)
}

func TestWriteComparison(t *testing.T) {
	a := results("car1", []float64{110, 112}, []int{10, 12}, 10)
	b := results("car1", []float64{100, 101}, []int{5, 6}, 0)
	c := Compare("GA", a, "EVO", b)

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "Instance: car1")
	assert.Contains(t, out, "Improvement of EVO:")
	assert.Contains(t, out, "Better (quality): EVO")
	assert.NotContains(t, out, "Better (time)")

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, []Comparison{c}))
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"car1", "GA", "EVO"}, rows[1][:3])
	assert.Equal(t, "", rows[1][12])
	assert.Equal(t, "EVO", rows[1][16])
}
