package flowshop

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := FromMatrix([][]int{
		{1, 2, 3, 4},
		{4, 3, 2, 1},
	}, 12, 10)
	require.NoError(t, err)
	return inst
}

func TestDecodeScenario(t *testing.T) {
	eval, err := NewEvaluator(smallInstance(t))
	require.NoError(t, err)

	ms, fit := eval.Decode([]int{1, 2, 3, 4})
	assert.Equal(t, 11.0, ms)
	assert.InDelta(t, 1.0/11.0, fit, 1e-12)

	rev, _ := eval.Decode([]int{4, 3, 2, 1})
	assert.Equal(t, 16.0, rev)
	assert.NotEqual(t, ms, rev)
}

func TestDecodeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	inst := RandomInstance(20, 5, 1, 99, rng)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	perm := make([]int, inst.Jobs)
	IdentityPermutation(perm)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	ms1, f1 := eval.Decode(perm)
	ms2, f2 := eval.Decode(perm)
	assert.Equal(t, ms1, ms2)
	assert.Equal(t, f1, f2)

	ms3, err := eval.Makespan(perm)
	require.NoError(t, err)
	assert.Equal(t, ms1, float64(ms3))
}

func TestDecodeZeroTimes(t *testing.T) {
	inst, err := NewInstance(4, 2, make([]int, 8))
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	ms, fit := eval.Decode([]int{2, 1, 4, 3})
	assert.Equal(t, 0.0, ms)
	assert.True(t, math.IsInf(fit, 1))
}

func TestMakespanRejectsInvalidPermutation(t *testing.T) {
	eval, err := NewEvaluator(smallInstance(t))
	require.NoError(t, err)

	for name, perm := range map[string][]int{
		"short":     {1, 2, 3},
		"duplicate": {1, 2, 2, 4},
		"zero":      {0, 1, 2, 3},
		"too large": {1, 2, 3, 5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := eval.Makespan(perm)
			assert.Error(t, err)
		})
	}
	assert.Equal(t, 4, eval.Jobs())
}

func TestSingleMachineIsOrderIndependent(t *testing.T) {
	inst, err := FromMatrix([][]int{{5, 7, 1, 3, 9}}, 25, 25)
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	a, _ := eval.Decode([]int{1, 2, 3, 4, 5})
	b, _ := eval.Decode([]int{5, 3, 1, 4, 2})
	assert.Equal(t, 25.0, a)
	assert.Equal(t, a, b)
}
