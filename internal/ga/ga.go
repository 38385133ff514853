package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"k8s.io/klog/v2"

	"evosocial/internal/flowshop"
	"evosocial/internal/opt"
)

// Solver — поколенческий генетический алгоритм (турнирный отбор, элитизм,
// OX, мутация обменом). Служит базовой линией при сравнении с Evosocial.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// population — популяция в одном непрерывном буфере.
type population struct {
	perms  [][]int
	scores []float64
}

func newPopulation(size, jobs int) population {
	backing := make([]int, size*jobs)
	perms := make([][]int, size)
	for i := range perms {
		perms[i] = backing[i*jobs : (i+1)*jobs]
	}
	return population{perms: perms, scores: make([]float64, size)}
}

func (p population) mean() float64 {
	sum := 0.0
	for _, s := range p.scores {
		sum += s
	}
	return sum / float64(len(p.scores))
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	logger := klog.FromContext(ctx)

	eval, err := flowshop.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	jobs := inst.Jobs
	popSize := s.Cfg.Population

	// Две популяции: текущая (cur) и следующая (next)
	cur := newPopulation(popSize, jobs)
	next := newPopulation(popSize, jobs)

	for i := 0; i < popSize; i++ {
		flowshop.IdentityPermutation(cur.perms[i])
		shufflePermutation(cur.perms[i], s.Rng)
		cur.scores[i], _ = eval.Decode(cur.perms[i])
	}
	evaluations := popSize

	bestPerm := make([]int, jobs)
	bestIdx := 0
	for i := 1; i < popSize; i++ {
		if cur.scores[i] < cur.scores[bestIdx] {
			bestIdx = i
		}
	}
	copy(bestPerm, cur.perms[bestIdx])
	bestMakespan := cur.scores[bestIdx]
	bestGen := 0

	ox := newCrossoverOX(jobs)
	history := opt.NewRecorder(s.Cfg.Generations)

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make([]int, jobs)

	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	result := func(gens int, meta map[string]any) opt.Result {
		permCopy := make([]int, jobs)
		copy(permCopy, bestPerm)
		return opt.Result{
			Permutation:   permCopy,
			Makespan:      int(bestMakespan),
			Evaluations:   evaluations,
			Iterations:    gens,
			Duration:      time.Since(start),
			BestIteration: bestGen,
			FinalMean:     cur.mean(),
			Convergence:   history.Records(),
			Meta:          meta,
		}
	}

	for gen := 1; gen <= s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return result(gen-1, map[string]any{"stopped": "context"}), err
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.Slice(idxs, func(i, j int) bool {
			return cur.scores[idxs[i]] < cur.scores[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(next.perms[write], cur.perms[src])
			next.scores[write] = cur.scores[src]
			write++
		}

		for write < popSize {
			p1 := tournamentSelect(cur.scores, s.Cfg.TournamentSize, s.Rng)
			p2 := secondParent(cur.scores, p1, s.Cfg.TournamentSize, s.Rng)

			child1 := next.perms[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = next.perms[write+1]
			}

			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				ox.apply(cur.perms[p1], cur.perms[p2], child1, child2, s.Rng)
			} else {
				copy(child1, cur.perms[p1])
				copy(child2, cur.perms[p2])
			}

			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutateSwap(child1, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutateSwap(child2, s.Rng)
			}

			next.scores[write], _ = eval.Decode(child1)
			evaluations++
			write++

			if hasSecond {
				next.scores[write], _ = eval.Decode(child2)
				evaluations++
				write++
			}
		}

		// Смена поколений
		cur, next = next, cur

		for i, sc := range cur.scores {
			if sc < bestMakespan {
				bestMakespan = sc
				bestGen = gen
				copy(bestPerm, cur.perms[i])
			}
		}

		history.Append(opt.GenerationRecord{
			Generation:   gen,
			BestMakespan: bestMakespan,
			Evaluations:  evaluations,
		})
		logger.V(4).Info("ga generation completed", "generation", gen, "best", bestMakespan, "mean", cur.mean())
	}

	return result(s.Cfg.Generations, map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}), nil
}
