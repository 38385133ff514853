package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"evosocial/internal/bench"
	"evosocial/internal/config"
	"evosocial/internal/evosocial"
	"evosocial/internal/flowshop"
	"evosocial/internal/opt"
	"evosocial/internal/report"
)

const algoName = "EVO"

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
	var (
		cfgPath  = pflag.String("config", "DATOS.DAT", "файл параметров: DATOS.DAT (5 строк) или YAML/JSON")
		outDir   = pflag.String("out", ".", "каталог для файлов результатов")
		baseSeed = pflag.Int64("seed", time.Now().UnixNano(), "базовый сид; запуск i использует seed+i")
		workers  = pflag.Int("workers", 0, "число параллельных запусков; 0 — GOMAXPROCS")
		perRunTO = pflag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		png      = pflag.Bool("plot", false, "сохранить график сходимости (PNG)")
		html     = pflag.Bool("html", false, "сохранить HTML-отчёт по запускам")

		runs    = pflag.Int("runs", 0, "количество запусков (переопределяет конфигурацию)")
		pmut    = pflag.Float64("pmut", 0, "вероятность мутации (переопределяет конфигурацию)")
		pcross  = pflag.Float64("pcross", 0, "вероятность кроссовера (переопределяет конфигурацию)")
		maxgen  = pflag.Int("maxgen", 0, "количество поколений (переопределяет конфигурацию)")
		popsize = pflag.Int("popsize", 0, "размер популяции (переопределяет конфигурацию)")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Использование: %s [флаги] экземпляр...\n", os.Args[0])
		pflag.PrintDefaults()
	}

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()
	defer klog.Flush()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка чтения конфигурации:", err)
		os.Exit(2)
	}
	var ov config.Overrides
	changed := pflag.CommandLine.Changed
	if changed("runs") {
		ov.Runs = runs
	}
	if changed("pmut") {
		ov.MutationProb = pmut
	}
	if changed("pcross") {
		ov.CrossoverProb = pcross
	}
	if changed("maxgen") {
		ov.MaxGenerations = maxgen
	}
	if changed("popsize") {
		ov.PopulationSize = popsize
	}
	cfg = ov.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации:", err)
		os.Exit(2)
	}

	ctx := klog.NewContext(context.Background(), klog.Background())

	runner := bench.Runner{
		Runs:          cfg.Runs,
		BaseSeed:      *baseSeed,
		Workers:       *workers,
		PerRunTimeout: *perRunTO,
	}
	algo := bench.Algorithm{Name: algoName, Factory: newEvoFactory(cfg)}

	for _, path := range pflag.Args() {
		inst, err := flowshop.LoadInstance(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка чтения экземпляра:", err)
			os.Exit(1)
		}

		fmt.Printf("Экземпляр %s: %d работ, %d машин, верхняя граница %d; запусков %d (поколений %d, популяция %d)\n",
			inst.Name, inst.Jobs, inst.Machines, inst.UpperBound, cfg.Runs, cfg.MaxGenerations, cfg.PopulationSize)

		start := time.Now()
		outcomes, err := runner.RunInstance(ctx, inst, algo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка:", err)
			os.Exit(1)
		}
		elapsed := time.Since(start)

		files, err := bench.SaveResults(*outDir, algoName, inst, outcomes, elapsed)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка при записи результатов:", err)
			os.Exit(1)
		}

		printSummary(outcomes, elapsed)
		fmt.Println("  Сохранено:", files.Summary, files.Detail, files.Timing)

		if *png {
			p := filepath.Join(*outDir, "convergencia_"+inst.Name+".png")
			if err := report.PlotConvergence(p, inst.Name, report.FromOutcomes(outcomes)); err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка построения графика:", err)
				os.Exit(1)
			}
			fmt.Println("  Сохранено:", p)
		}
		if *html {
			p := filepath.Join(*outDir, "reporte_"+inst.Name+".html")
			if err := bench.WriteFile(p, func(w io.Writer) error {
				return report.RenderSummary(w, inst.Name, outcomes)
			}); err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка построения отчёта:", err)
				os.Exit(1)
			}
			fmt.Println("  Сохранено:", p)
		}
	}
}

func printSummary(outcomes []bench.Outcome, elapsed time.Duration) {
	makespans := make([]float64, len(outcomes))
	errs := make([]float64, len(outcomes))
	var decodes, evals int
	for i, o := range outcomes {
		makespans[i] = float64(o.Result.Makespan)
		errs[i] = o.BestError
		evals += o.Result.Evaluations
		if d, ok := o.Result.Meta["decodes"].(int); ok {
			decodes += d
		}
	}
	ms := bench.Describe(makespans)
	es := bench.Describe(errs)

	fmt.Printf("  Makespan: лучшее=%.0f среднее=%.2f стандартное отклонение=%.2f | ошибка: лучшая=%.2f%% средняя=%.2f%%\n",
		ms.Best, ms.Mean, ms.Std, es.Best, es.Mean)
	fmt.Printf("  Оценок: %s (декодирований %s) | Время: %s\n",
		humanize.Comma(int64(evals)), humanize.Comma(int64(decodes)), elapsed.Round(time.Millisecond))
}
