package evosocial

import "evosocial/internal/flowshop"

// Individual — хромосома вместе с её makespan и приспособленностью.
type Individual struct {
	Chromosome Chromosome
	Objective  float64
	Fitness    float64
}

func (ind Individual) Clone() Individual {
	ind.Chromosome = ind.Chromosome.Clone()
	return ind
}

// evaluate пересчитывает Objective и Fitness после изменения хромосомы.
func (ind *Individual) evaluate(eval *flowshop.Evaluator) {
	ind.Objective, ind.Fitness = eval.Decode(ind.Chromosome)
}
