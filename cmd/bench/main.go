package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"evosocial/internal/bench"
	"evosocial/internal/evosocial"
	"evosocial/internal/ga"
	"evosocial/internal/opt"
)

// Фабрики

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, err := ga.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil
		}
		return solver
	}
}

func newEvoFactory(cfg evosocial.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		c, err := evosocial.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil
		}
		return c
	}
}

func main() {
	// CLI флаги для настройки параметров алгоритмов и политики запуска
	var (
		out          = pflag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		pairs        = pflag.String("pairs", "20x5,50x10,100x20", "конфигурации: количество работ Х количество станков (через запятую)")
		algos        = pflag.String("algos", "EVO,GA", "список алгоритмов: EVO, GA (через запятую)")
		runs         = pflag.Int("runs", 30, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = pflag.Int64("seed", 1000, "базовый сид для запусков алгоритмов")
		instanceSeed = pflag.Int64("instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
		workers      = pflag.Int("workers", 0, "число параллельных запусков; 0 — GOMAXPROCS")
		perRunTO     = pflag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")

		// --- Evosocial ---
		evoPop   = pflag.Int("evo_pop", 250, "количество иммигрантов за поколение")
		evoGen   = pflag.Int("evo_gen", 500, "количество поколений")
		evoCross = pflag.Float64("evo_pcross", 0.65, "вероятность кроссовера с королевой")
		evoMut   = pflag.Float64("evo_pmut", 0.05, "вероятность мутации")

		// --- Генетический алгоритм ---
		gaPop   = pflag.Int("ga_pop", 250, "размер популяции")
		gaGen   = pflag.Int("ga_gen", 500, "количество поколений")
		gaElite = pflag.Int("ga_elite", 1, "размер элиты (количество лучших особей)")
		gaTour  = pflag.Int("ga_tour", 3, "размер турнирной выборки")
		gaCx    = pflag.Float64("ga_cx", 0.65, "вероятность применения кроссовера")
		gaMut   = pflag.Float64("ga_mut", 0.05, "вероятность мутации")
	)

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()
	defer klog.Flush()

	ctx := klog.NewContext(context.Background(), klog.Background())

	cases, err := bench.ParseCases(*pairs, *instanceSeed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	gaCfg := ga.Config{
		Population:     *gaPop,
		Generations:    *gaGen,
		Elite:          *gaElite,
		TournamentSize: *gaTour,
		CrossoverRate:  *gaCx,
		MutationRate:   *gaMut,
	}
	if err := gaCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации генетического алгоритма:", err)
		os.Exit(2)
	}

	evoCfg := evosocial.Config{
		Runs:           *runs,
		MutationProb:   *evoMut,
		CrossoverProb:  *evoCross,
		MaxGenerations: *evoGen,
		PopulationSize: *evoPop,
	}
	if err := evoCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации Evosocial:", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"EVO": {Name: "EVO", Factory: newEvoFactory(evoCfg)},
		"GA":  {Name: "GA", Factory: newGAFactory(gaCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range bench.SplitList(*algos) {
		al, ok := available[a]
		if !ok {
			fmt.Fprintf(os.Stderr, "Алгоритм не предоставлен в программе %q; доступные: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		Workers:       *workers,
		PerRunTimeout: *perRunTO,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Printf("Запущен алгоритм %s; %d работ %d машин (общее кол-во запусков=%d)...\n", a.Name, c.Jobs, c.Machines, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  Значение целевой функции: лучшее=%.0f среднее=%.2f стандартное отклонение=%.2f | Поколение лучшего: %.1f | Время: среднее=%.2fms среднее отклонение=%.2fms\n",
				rec.MakespanBest, rec.MakespanMean, rec.MakespanStd,
				rec.BestIterationMean,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Printf("Сохранено: %s (%s записей)\n", *out, humanize.Comma(int64(len(records))))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
