package evosocial

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evosocial/internal/flowshop"
)

func testConfig() Config {
	return Config{
		Runs:           1,
		MutationProb:   0.3,
		CrossoverProb:  0.6,
		MaxGenerations: 25,
		PopulationSize: 15,
	}
}

func testInstance(t *testing.T, jobs, machines int) *flowshop.Instance {
	t.Helper()
	inst := flowshop.RandomInstance(jobs, machines, 1, 99, rand.New(rand.NewSource(777)))
	inst.UpperBound = 1500
	inst.LowerBound = 1200
	return inst
}

func run(t *testing.T, cfg Config, inst *flowshop.Instance, seed int64) RunResult {
	t.Helper()
	c, err := New(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	res, err := c.Run(context.Background(), inst)
	require.NoError(t, err)
	return res
}

func TestRunBookkeeping(t *testing.T) {
	cfg := testConfig()
	inst := testInstance(t, 20, 5)
	res := run(t, cfg, inst, 42)

	require.Len(t, res.History, cfg.MaxGenerations)
	assert.Equal(t, cfg.MaxGenerations, res.Generations())
	assert.Equal(t, cfg.MaxGenerations*cfg.PopulationSize, res.Evaluations)
	assert.Equal(t, 1+3*cfg.MaxGenerations*cfg.PopulationSize, res.Decodes)

	for i, rec := range res.History {
		assert.Equal(t, i+1, rec.Generation)
		assert.Equal(t, (i+1)*cfg.PopulationSize, rec.Evaluations)
		if i > 0 {
			assert.LessOrEqual(t, rec.BestMakespan, res.History[i-1].BestMakespan, "best-so-far must not increase")
		}
	}
	assert.Equal(t, res.BestMakespan, res.History[len(res.History)-1].BestMakespan)

	// Лучшая особь согласована с makespan
	require.NoError(t, res.Best.Chromosome.Validate())
	eval, err := flowshop.NewEvaluator(inst)
	require.NoError(t, err)
	ms, fit := eval.Decode(res.Best.Chromosome)
	assert.Equal(t, res.BestMakespan, ms)
	assert.Equal(t, res.Best.Objective, ms)
	assert.Equal(t, res.Best.Fitness, fit)

	if res.GenerationOfBest > 0 {
		assert.Equal(t, res.BestMakespan, res.History[res.GenerationOfBest-1].BestMakespan)
		if res.GenerationOfBest > 1 {
			assert.Greater(t, res.History[res.GenerationOfBest-2].BestMakespan, res.BestMakespan)
		}
	}

	assert.InDelta(t, RelativeError(1500, res.BestMakespan), res.BestRelativeError, 1e-9)
	assert.InDelta(t, RelativeError(1500, res.LastGeneration.Mean), res.MeanRelativeError, 1e-9)
	assert.Equal(t, cfg.PopulationSize, res.LastGeneration.Count)
	assert.LessOrEqual(t, res.LastGeneration.Min, res.LastGeneration.Mean)
	assert.LessOrEqual(t, res.LastGeneration.Mean, res.LastGeneration.Max)
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig()
	inst := testInstance(t, 15, 4)

	a := run(t, cfg, inst, 7)
	b := run(t, cfg, inst, 7)

	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(RunResult{}, "Duration")); diff != "" {
		t.Errorf("same seed produced different results (-a +b):\n%s", diff)
	}
}

func TestRunImproves(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 60
	cfg.PopulationSize = 30
	inst := testInstance(t, 20, 5)

	res := run(t, cfg, inst, 1)
	first := res.History[0].BestMakespan
	assert.LessOrEqual(t, res.BestMakespan, first)
	assert.Less(t, res.BestMakespan, res.LastGeneration.Max)
}

func TestRunWithoutOperatorsKeepsQueen(t *testing.T) {
	// На одном станке makespan не зависит от порядка, поэтому ни один иммигрант
	// не может оказаться строго лучше королевы.
	inst, err := flowshop.FromMatrix([][]int{{3, 1, 4, 1, 5, 9, 2, 6}}, 40, 31)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.CrossoverProb = 0
	cfg.MutationProb = 0
	res := run(t, cfg, inst, 3)

	assert.Equal(t, 31.0, res.BestMakespan)
	assert.Equal(t, 0, res.GenerationOfBest)
	for _, rec := range res.History {
		assert.Equal(t, 31.0, rec.BestMakespan)
	}
}

func TestRunRejectsDegenerateInstances(t *testing.T) {
	c, err := New(testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	small, err := flowshop.FromMatrix([][]int{{1, 2, 3}, {3, 2, 1}}, 0, 0)
	require.NoError(t, err)

	for name, inst := range map[string]*flowshop.Instance{
		"three jobs":  small,
		"no machines": {Jobs: 5, Machines: 0},
		"nil":         nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Run(context.Background(), inst)
			assert.ErrorIs(t, err, ErrDegenerateInstance)
		})
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	c, err := New(testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Run(ctx, testInstance(t, 10, 3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.History)
	assert.NoError(t, res.Best.Chromosome.Validate())
	assert.Equal(t, res.Best.Objective, res.BestMakespan)
}

func TestSolveAdapter(t *testing.T) {
	cfg := testConfig()
	inst := testInstance(t, 12, 3)
	c, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	out, err := c.Solve(context.Background(), inst)
	require.NoError(t, err)

	eval, err := flowshop.NewEvaluator(inst)
	require.NoError(t, err)
	ms, err := eval.Makespan(out.Permutation)
	require.NoError(t, err)
	assert.Equal(t, ms, out.Makespan)
	assert.Equal(t, cfg.MaxGenerations, out.Iterations)
	assert.Len(t, out.Convergence, cfg.MaxGenerations)
	assert.Equal(t, float64(out.Makespan), out.Convergence[len(out.Convergence)-1].BestMakespan)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(testConfig(), nil)
	assert.Error(t, err)

	bad := testConfig()
	bad.PopulationSize = 0
	_, err = New(bad, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestInvalidChromosomeIsRejected(t *testing.T) {
	inst := testInstance(t, 5, 2)
	eval, err := flowshop.NewEvaluator(inst)
	require.NoError(t, err)

	tests := []struct {
		name string
		ch   Chromosome
		// ok — проходит проверку без учёта размера экземпляра.
		ok bool
	}{
		{"duplicate", Chromosome{1, 2, 2, 4, 5}, false},
		{"out of range", Chromosome{1, 2, 3, 4, 6}, false},
		{"zero gene", Chromosome{0, 1, 2, 3, 4}, false},
		{"wrong length", Chromosome{1, 2, 3, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ok {
				assert.NoError(t, tt.ch.Validate())
			} else {
				assert.ErrorIs(t, tt.ch.Validate(), ErrInvalidChromosome)
			}
			assert.ErrorIs(t, tt.ch.ValidateFor(inst.Jobs), ErrInvalidChromosome)

			ind, err := offspring(tt.ch, eval)
			assert.ErrorIs(t, err, ErrInvalidChromosome)
			assert.Nil(t, ind.Chromosome)
			assert.Zero(t, ind.Objective)
		})
	}

	ind, err := offspring(Chromosome{3, 1, 5, 2, 4}, eval)
	require.NoError(t, err)
	assert.Positive(t, ind.Objective)
}
