package bench

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"

	"evosocial/internal/evosocial"
	"evosocial/internal/flowshop"
	"evosocial/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Case struct {
	Jobs         int
	Machines     int
	InstanceSeed int64
}

// Outcome — результат одного запуска.
type Outcome struct {
	Run    int
	Seed   int64
	Result opt.Result

	// Отклонение (%) лучшего решения и среднего последней итерации от верхней границы.
	BestError float64
	PopError  float64
}

type Record struct {
	Algo     string
	Jobs     int
	Machines int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest float64
	MakespanMean float64
	MakespanStd  float64

	BestIterationMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	Workers       int           // 0 = GOMAXPROCS
	PerRunTimeout time.Duration // 0 = no timeout
}

// RunInstance выполняет Runs независимых запусков algo на inst параллельно.
// Каждый запуск получает собственный оптимизатор с сидом BaseSeed+i;
// экземпляр разделяется между запусками только для чтения.
// Результаты упорядочены по номеру запуска.
func (r Runner) RunInstance(ctx context.Context, inst *flowshop.Instance, algo Algorithm) ([]Outcome, error) {
	if r.Runs <= 0 {
		return nil, fmt.Errorf("runs must be > 0 (got %d)", r.Runs)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, r.Runs)
	p := pool.New().
		WithMaxGoroutines(workers).
		WithErrors().
		WithContext(ctx).
		WithCancelOnError()

	for i := 0; i < r.Runs; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			out, err := r.runOne(ctx, inst, algo, i)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r Runner) runOne(ctx context.Context, inst *flowshop.Instance, algo Algorithm, i int) (Outcome, error) {
	logger := klog.FromContext(ctx).WithValues("algo", algo.Name, "instance", inst.Name, "run", i)

	runSeed := r.BaseSeed + int64(i)
	op := algo.Factory(runSeed)
	if op == nil {
		return Outcome{}, fmt.Errorf("run %d: %s factory returned nil optimizer", i, algo.Name)
	}

	runCtx := klog.NewContext(ctx, logger)
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, r.PerRunTimeout)
	}
	res, err := op.Solve(runCtx, inst)
	ctxErr := runCtx.Err()
	cancel()

	if err != nil && ctxErr != nil {
		return Outcome{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("run %d: solve error: %w", i, err)
	}
	eval, err := flowshop.NewEvaluator(inst)
	if err != nil {
		return Outcome{}, err
	}
	ms, err := eval.Makespan(res.Permutation)
	if err != nil {
		return Outcome{}, fmt.Errorf("run %d: invalid permutation: %w", i, err)
	}
	if ms != res.Makespan {
		return Outcome{}, fmt.Errorf("run %d: reported makespan %d, permutation gives %d", i, res.Makespan, ms)
	}

	ub := float64(inst.UpperBound)
	out := Outcome{
		Run:       i,
		Seed:      runSeed,
		Result:    res,
		BestError: evosocial.RelativeError(ub, float64(res.Makespan)),
		PopError:  evosocial.RelativeError(ub, res.FinalMean),
	}
	logger.V(2).Info("run finished", "makespan", res.Makespan, "bestIteration", res.BestIteration, "duration", res.Duration)
	return out, nil
}

// RunCase генерирует случайный экземпляр и агрегирует результаты запусков.
func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := flowshop.RandomInstance(c.Jobs, c.Machines, 1, 99, rand.New(rand.NewSource(c.InstanceSeed)))

	outcomes, err := r.RunInstance(ctx, inst, algo)
	if err != nil {
		return Record{}, err
	}
	return Aggregate(algo.Name, inst, outcomes), nil
}

// Aggregate сводит результаты запусков в одну запись.
func Aggregate(algo string, inst *flowshop.Instance, outcomes []Outcome) Record {
	makespans := make([]float64, len(outcomes))
	timesMs := make([]float64, len(outcomes))
	bestIters := make([]float64, len(outcomes))
	for i, o := range outcomes {
		makespans[i] = float64(o.Result.Makespan)
		timesMs[i] = float64(o.Result.Duration.Microseconds()) / 1000.0
		bestIters[i] = float64(o.Result.BestIteration)
	}

	msStats := Describe(makespans)
	tStats := Describe(timesMs)

	return Record{
		Algo:     algo,
		Jobs:     inst.Jobs,
		Machines: inst.Machines,
		Runs:     len(outcomes),

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,

		BestIterationMean: Describe(bestIters).Mean,
	}
}
