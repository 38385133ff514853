package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"evosocial/internal/bench"
)

// Alpha — уровень значимости.
const Alpha = 0.05

// Side — описательная статистика одного алгоритма на экземпляре.
type Side struct {
	Name             string
	Makespan         bench.Summary
	GenerationOfBest float64 // среднее
	// Seconds < 0, если время неизвестно.
	Seconds float64
}

// Comparison — сравнение алгоритмов A и B на одном экземпляре.
// Улучшения — в процентах B относительно A: положительное значение означает,
// что у B величина меньше.
type Comparison struct {
	Instance string
	A, B     Side

	MeanImprovement       float64
	BestImprovement       float64
	GenerationImprovement float64
	TimeImprovement       float64
	HasTime               bool

	PWilcoxon    float64
	PMannWhitney float64
	Significant  bool

	// Winner — алгоритм с меньшим средним makespan (при равенстве A).
	Winner string
	// FasterName пуст, если время неизвестно.
	FasterName string
}

// Compare сравнивает результаты algoA и algoB на одном экземпляре.
func Compare(nameA string, a InstanceResults, nameB string, b InstanceResults) Comparison {
	ma, mb := a.Makespans(), b.Makespans()
	c := Comparison{
		Instance: a.Name,
		A:        side(nameA, a),
		B:        side(nameB, b),
	}

	c.MeanImprovement = improvement(c.A.Makespan.Mean, c.B.Makespan.Mean)
	c.BestImprovement = improvement(c.A.Makespan.Best, c.B.Makespan.Best)
	c.GenerationImprovement = improvement(c.A.GenerationOfBest, c.B.GenerationOfBest)
	if c.A.Seconds > 0 && c.B.Seconds >= 0 {
		c.HasTime = true
		c.TimeImprovement = improvement(c.A.Seconds, c.B.Seconds)
		c.FasterName = nameA
		if c.TimeImprovement > 0 {
			c.FasterName = nameB
		}
	}

	c.PWilcoxon = 1
	if len(ma) == len(mb) {
		c.PWilcoxon = WilcoxonSignedRank(ma, mb)
	}
	c.PMannWhitney = MannWhitneyU(ma, mb)
	c.Significant = math.Min(c.PWilcoxon, c.PMannWhitney) < Alpha

	c.Winner = nameA
	if c.MeanImprovement > 0 {
		c.Winner = nameB
	}
	return c
}

func side(name string, r InstanceResults) Side {
	s := Side{
		Name:     name,
		Makespan: bench.Describe(r.Makespans()),
		Seconds:  -1,
	}
	if g := r.Generations(); len(g) > 0 {
		s.GenerationOfBest = stat.Mean(g, nil)
	}
	if r.Timing != nil {
		s.Seconds = r.Timing.Seconds
	}
	return s
}

func improvement(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (a - b) / a * 100
}

// WilcoxonSignedRank возвращает двустороннее p-значение критерия Уилкоксона
// для парных выборок одинаковой длины. Нулевые разности отбрасываются;
// используется нормальное приближение с поправкой на связки.
func WilcoxonSignedRank(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("analysis: samples must have equal length")
	}
	var diffs []float64
	for i := range x {
		if d := x[i] - y[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := float64(len(diffs))
	if n == 0 {
		return 1
	}

	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks, ties := rank(abs)

	wPlus := 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		}
	}

	mean := n * (n + 1) / 4
	variance := n*(n+1)*(2*n+1)/24 - ties/48
	if variance <= 0 {
		return 1
	}
	z := (wPlus - mean) / math.Sqrt(variance)
	return twoSided(z)
}

// MannWhitneyU возвращает двустороннее p-значение критерия Манна–Уитни
// (нормальное приближение, поправка на связки и непрерывность).
func MannWhitneyU(x, y []float64) float64 {
	n1, n2 := float64(len(x)), float64(len(y))
	if n1 == 0 || n2 == 0 {
		return 1
	}

	all := make([]float64, 0, len(x)+len(y))
	all = append(all, x...)
	all = append(all, y...)
	ranks, ties := rank(all)

	r1 := 0.0
	for i := range x {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2

	n := n1 + n2
	mean := n1 * n2 / 2
	variance := n1 * n2 / 12 * ((n + 1) - ties/(n*(n-1)))
	if variance <= 0 {
		return 1
	}
	z := (math.Abs(u1-mean) - 0.5) / math.Sqrt(variance)
	if z < 0 {
		return 1
	}
	return twoSided(z)
}

func twoSided(z float64) float64 {
	return math.Min(1, 2*distuv.UnitNormal.Survival(math.Abs(z)))
}

// rank возвращает ранги (с 1, средние для связок) и сумму t³−t по группам связок.
func rank(values []float64) (ranks []float64, ties float64) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	ranks = make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && values[idx[j]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		t := float64(j - i)
		ties += t*t*t - t
		i = j
	}
	return ranks, ties
}

// WriteComparison пишет текстовый отчёт сравнения.
func WriteComparison(w io.Writer, c Comparison) error {
	ew := &errWriter{w: w}
	ew.printf("Instance: %s\n", c.Instance)
	ew.printf("%s\n", "--------------------------------------------------")
	for _, s := range []Side{c.A, c.B} {
		ew.printf("%-15s best: %7.2f  mean: %7.2f ± %5.2f  median: %7.2f\n",
			s.Name, s.Makespan.Best, s.Makespan.Mean, s.Makespan.Std, s.Makespan.Median)
		if s.Seconds >= 0 {
			ew.printf("%-15s time: %.2fs (%.2f min)\n", "", s.Seconds, s.Seconds/60)
		}
	}

	ew.printf("\nImprovement of %s:\n", c.B.Name)
	ew.printf("  mean makespan:       %+6.2f%%\n", c.MeanImprovement)
	ew.printf("  best makespan:       %+6.2f%%\n", c.BestImprovement)
	ew.printf("  generation of best:  %+6.2f%% (lower is better)\n", c.GenerationImprovement)
	if c.HasTime {
		ew.printf("  time:                %+6.2f%% (lower is better)\n", c.TimeImprovement)
	}

	ew.printf("\nWilcoxon p-value:     %.4f\n", c.PWilcoxon)
	ew.printf("Mann-Whitney p-value: %.4f\n", c.PMannWhitney)
	verdict := "not significant"
	if c.Significant {
		verdict = "significant"
	}
	ew.printf("Result: %s (alpha=%.2f)\n", verdict, Alpha)
	ew.printf("Better (quality): %s\n", c.Winner)
	if c.FasterName != "" {
		ew.printf("Better (time):    %s\n", c.FasterName)
	}
	return ew.err
}

// WriteCSV экспортирует сравнения в CSV, по строке на экземпляр.
func WriteCSV(w io.Writer, cs []Comparison) error {
	cw := csv.NewWriter(w)
	header := []string{
		"instance", "algo_a", "algo_b",
		"mean_a", "mean_b", "best_a", "best_b", "std_a", "std_b",
		"mean_improvement", "best_improvement", "generation_improvement", "time_improvement",
		"p_wilcoxon", "p_mannwhitney", "significant", "winner",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range cs {
		timeImp := ""
		if c.HasTime {
			timeImp = ftoa(c.TimeImprovement)
		}
		row := []string{
			c.Instance, c.A.Name, c.B.Name,
			ftoa(c.A.Makespan.Mean), ftoa(c.B.Makespan.Mean),
			ftoa(c.A.Makespan.Best), ftoa(c.B.Makespan.Best),
			ftoa(c.A.Makespan.Std), ftoa(c.B.Makespan.Std),
			ftoa(c.MeanImprovement), ftoa(c.BestImprovement), ftoa(c.GenerationImprovement), timeImp,
			ftoa(c.PWilcoxon), ftoa(c.PMannWhitney), strconv.FormatBool(c.Significant), c.Winner,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
