package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gonum.org/v1/plot/plotter"
	"k8s.io/klog/v2"

	"evosocial/internal/analysis"
	"evosocial/internal/bench"
	"evosocial/internal/report"
)

func main() {
	var (
		dirA  = pflag.String("a", "", "каталог результатов первого алгоритма")
		nameA = pflag.String("a_name", "GA", "имя первого алгоритма (как в именах файлов времени)")
		dirB  = pflag.String("b", "", "каталог результатов второго алгоритма")
		nameB = pflag.String("b_name", "EVO", "имя второго алгоритма")
		out   = pflag.String("out", "analisis_resultados", "каталог для отчётов")
		png   = pflag.Bool("plot", true, "сохранить графики средней сходимости")
	)
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()
	defer klog.Flush()

	if *dirA == "" || *dirB == "" {
		fmt.Fprintln(os.Stderr, "Необходимо указать каталоги --a и --b")
		pflag.Usage()
		os.Exit(2)
	}

	resA, err := analysis.LoadDir(*dirA, *nameA)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка загрузки результатов:", err)
		os.Exit(1)
	}
	resB, err := analysis.LoadDir(*dirB, *nameB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка загрузки результатов:", err)
		os.Exit(1)
	}
	klog.V(2).InfoS("results loaded", "a", *nameA, "instancesA", len(resA), "b", *nameB, "instancesB", len(resB))

	byName := make(map[string]analysis.InstanceResults, len(resB))
	for _, r := range resB {
		byName[r.Name] = r
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}

	var comparisons []analysis.Comparison
	for _, a := range resA {
		b, ok := byName[a.Name]
		if !ok {
			klog.V(2).InfoS("instance missing in second directory", "instance", a.Name)
			continue
		}
		c := analysis.Compare(*nameA, a, *nameB, b)
		comparisons = append(comparisons, c)

		if err := analysis.WriteComparison(os.Stdout, c); err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка:", err)
			os.Exit(1)
		}
		fmt.Println()

		if *png && len(a.Detail) > 0 && len(b.Detail) > 0 {
			p := filepath.Join(*out, "convergencia_"+a.Name+".png")
			curves := []report.Curve{meanCurve(*nameA, a.Detail), meanCurve(*nameB, b.Detail)}
			if err := report.PlotConvergence(p, a.Name, curves); err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка построения графика:", err)
				os.Exit(1)
			}
		}
	}
	if len(comparisons) == 0 {
		fmt.Fprintln(os.Stderr, "Нет общих экземпляров для сравнения")
		os.Exit(1)
	}

	txt := filepath.Join(*out, "comparacion.txt")
	if err := bench.WriteFile(txt, func(w io.Writer) error {
		for _, c := range comparisons {
			if err := analysis.WriteComparison(w, c); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи отчёта:", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*out, "comparacion.csv")
	if err := bench.WriteFile(csvPath, func(w io.Writer) error {
		return analysis.WriteCSV(w, comparisons)
	}); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Сохранено:", txt, csvPath)
}

func meanCurve(label string, detail []analysis.DetailPoint) report.Curve {
	runs := analysis.SplitRuns(detail)
	curves := make([]report.Curve, len(runs))
	for i, run := range runs {
		pts := make(plotter.XYs, len(run))
		for j, p := range run {
			pts[j].X = float64(p.Generation)
			pts[j].Y = p.BestMakespan
		}
		curves[i] = report.Curve{Label: label, Points: pts}
	}
	return report.Mean(label, curves)
}
