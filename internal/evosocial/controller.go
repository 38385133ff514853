package evosocial

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"evosocial/internal/flowshop"
	"evosocial/internal/opt"
)

// Controller — эволюционный цикл Evosocial: одна элитная особь («королева»)
// соревнуется со случайными иммигрантами.
// Controller владеет генератором случайных чисел и не должен использоваться
// из нескольких горутин одновременно.
type Controller struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый контроллер с валидацией конфигурации.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Controller{Cfg: cfg, Rng: rng}, nil
}

// Run выполняет один запуск на экземпляре inst. Отмена ctx проверяется
// между поколениями; в этом случае возвращается частичный результат и ctx.Err().
func (c *Controller) Run(ctx context.Context, inst *flowshop.Instance) (RunResult, error) {
	start := time.Now()

	if err := checkInstance(inst); err != nil {
		return RunResult{}, err
	}
	if err := c.Cfg.Validate(); err != nil {
		return RunResult{}, err
	}
	if c.Rng == nil {
		return RunResult{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	logger := klog.FromContext(ctx)

	eval, err := flowshop.NewEvaluator(inst)
	if err != nil {
		return RunResult{}, err
	}

	popSize := c.Cfg.PopulationSize
	pCross := c.Cfg.CrossoverProb
	pMut := c.Cfg.MutationProb

	queen, err := c.immigrant(inst.Jobs, eval)
	if err != nil {
		return RunResult{}, err
	}
	decodes := 1

	best := queen.Objective
	genOfBest := 0
	evaluations := 0
	history := opt.NewRecorder(c.Cfg.MaxGenerations)
	last := newGenerationStats(0, queen.Objective)
	last.Mean = queen.Objective

	logger.V(2).Info("evosocial run started", "instance", inst.Name, "jobs", inst.Jobs, "machines", inst.Machines, "queen", queen.Objective)

	finish := func() RunResult {
		return RunResult{
			Best:              queen.Clone(),
			BestMakespan:      best,
			GenerationOfBest:  genOfBest,
			BestRelativeError: RelativeError(float64(inst.UpperBound), best),
			MeanRelativeError: RelativeError(float64(inst.UpperBound), last.Mean),
			LastGeneration:    last,
			History:           history.Records(),
			Evaluations:       evaluations,
			Decodes:           decodes,
			Duration:          time.Since(start),
		}
	}

	for gen := 1; gen <= c.Cfg.MaxGenerations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		stats := newGenerationStats(gen, queen.Objective)

		for step := 0; step < popSize; step++ {
			imm, err := c.immigrant(inst.Jobs, eval)
			if err != nil {
				return finish(), err
			}
			decodes++

			var cand Individual
			if flip(pCross, c.Rng) {
				// Кроссовер королевы с иммигрантом, остаётся лучший потомок
				ca, cb := Crossover(queen.Chromosome, imm.Chromosome, pMut, c.Rng)
				a, err := offspring(ca, eval)
				if err != nil {
					return finish(), err
				}
				b, err := offspring(cb, eval)
				if err != nil {
					return finish(), err
				}
				decodes += 2
				cand = b
				if a.Objective < b.Objective {
					cand = a
				}
			} else {
				// Мутация сдвигом копии королевы и иммигранта
				q := queen.Chromosome.Clone()
				if flip(pMut, c.Rng) {
					ShiftMutate(q, c.Rng)
				}
				if flip(pMut, c.Rng) {
					ShiftMutate(imm.Chromosome, c.Rng)
				}
				a, err := offspring(q, eval)
				if err != nil {
					return finish(), err
				}
				b, err := offspring(imm.Chromosome, eval)
				if err != nil {
					return finish(), err
				}
				decodes += 2
				cand = a
				if b.Objective < a.Objective {
					cand = b
				}
			}

			stats.observe(cand.Objective)

			// Элитная замена внутри поколения
			if cand.Objective < queen.Objective {
				queen = cand
			}
		}

		stats.Mean = stats.Sum / float64(popSize)
		evaluations += popSize
		last = stats

		if stats.Min < best {
			best = stats.Min
			genOfBest = gen
			logger.V(2).Info("new global best", "generation", gen, "makespan", best)
		}

		history.Append(opt.GenerationRecord{
			Generation:   gen,
			BestMakespan: best,
			Evaluations:  evaluations,
		})

		logger.V(4).Info("generation completed",
			"generation", gen,
			"best", best,
			"min", stats.Min,
			"max", stats.Max,
			"mean", stats.Mean,
		)
	}

	res := finish()
	logger.V(2).Info("evosocial run finished",
		"instance", inst.Name,
		"best", res.BestMakespan,
		"generationOfBest", res.GenerationOfBest,
		"bestError", res.BestRelativeError,
		"duration", res.Duration,
	)
	return res, nil
}

// Solve адаптирует Run к интерфейсу opt.Optimizer.
func (c *Controller) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	res, err := c.Run(ctx, inst)
	if res.Best.Chromosome == nil {
		return opt.Result{}, err
	}
	return opt.Result{
		Permutation:   res.Best.Chromosome.Clone(),
		Makespan:      int(res.BestMakespan),
		Evaluations:   res.Evaluations,
		Iterations:    res.Generations(),
		Duration:      res.Duration,
		BestIteration: res.GenerationOfBest,
		FinalMean:     res.LastGeneration.Mean,
		Convergence:   res.History,
		Meta: map[string]any{
			"population":  c.Cfg.PopulationSize,
			"generations": c.Cfg.MaxGenerations,
			"pcross":      c.Cfg.CrossoverProb,
			"pmut":        c.Cfg.MutationProb,
			"decodes":     res.Decodes,
		},
	}, err
}

// immigrant создаёт и оценивает случайную особь.
func (c *Controller) immigrant(n int, eval *flowshop.Evaluator) (Individual, error) {
	return offspring(NewChromosome(n, c.Rng), eval)
}

// offspring проверяет хромосому и вычисляет её makespan.
func offspring(ch Chromosome, eval *flowshop.Evaluator) (Individual, error) {
	if err := ch.ValidateFor(eval.Jobs()); err != nil {
		return Individual{}, err
	}
	ind := Individual{Chromosome: ch}
	ind.evaluate(eval)
	return ind, nil
}

func checkInstance(inst *flowshop.Instance) error {
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrDegenerateInstance, err)
	}
	if inst.Jobs < MinJobs {
		return fmt.Errorf("%w: at least %d jobs required (got %d)", ErrDegenerateInstance, MinJobs, inst.Jobs)
	}
	return nil
}
