package opt

import (
	"context"
	"time"

	"evosocial/internal/flowshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *flowshop.Instance) (Result, error)
}

type Result struct {
	Permutation []int
	Makespan    int
	Evaluations int
	Iterations  int
	Duration    time.Duration

	// BestIteration — итерация (поколение), на которой найдено лучшее решение.
	BestIteration int
	// FinalMean — среднее значение целевой функции на последней итерации.
	FinalMean float64
	// Convergence — лучшее найденное значение по итерациям.
	Convergence []GenerationRecord

	Meta map[string]any
}
