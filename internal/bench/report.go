package bench

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"evosocial/internal/flowshop"
)

// WriteSummary пишет по строке на запуск:
// номер, ошибка лучшего (%), ошибка популяции (%), лучший makespan, итерация лучшего.
func WriteSummary(w io.Writer, outcomes []Outcome) error {
	bw := bufio.NewWriter(w)
	for _, o := range outcomes {
		fmt.Fprintf(bw, "%2d %5.2f %5.2f %6.2f %4d\n",
			o.Run, o.BestError, o.PopError, float64(o.Result.Makespan), o.Result.BestIteration)
	}
	return bw.Flush()
}

// WriteDetail пишет кривые сходимости всех запусков подряд:
// поколение, лучший makespan к этому поколению, накопленные оценки.
func WriteDetail(w io.Writer, outcomes []Outcome) error {
	bw := bufio.NewWriter(w)
	for _, o := range outcomes {
		for _, rec := range o.Result.Convergence {
			fmt.Fprintf(bw, "%4d  %6.2f %d\n", rec.Generation, rec.BestMakespan, rec.Evaluations)
		}
	}
	return bw.Flush()
}

// WriteTiming пишет суммарное время выполнения серии запусков.
func WriteTiming(w io.Writer, algo, instance string, elapsed time.Duration) error {
	_, err := fmt.Fprintf(w, "instance: %s\nalgorithm: %s\nseconds: %.3f\n", instance, algo, elapsed.Seconds())
	return err
}

// Files — пути к файлам результатов серии запусков.
type Files struct {
	Summary string
	Detail  string
	Timing  string
}

// ResultFiles возвращает пути к файлам результатов algo на экземпляре instance в dir.
func ResultFiles(dir, algo, instance string) Files {
	return Files{
		Summary: filepath.Join(dir, "resumen_"+instance+".txt"),
		Detail:  filepath.Join(dir, "detalle_"+instance+".txt"),
		Timing:  filepath.Join(dir, "tiempo_ejecucion_"+algo+"_"+instance+".txt"),
	}
}

// SaveResults записывает сводку, детализацию и время серии запусков в dir.
func SaveResults(dir, algo string, inst *flowshop.Instance, outcomes []Outcome, elapsed time.Duration) (Files, error) {
	files := ResultFiles(dir, algo, inst.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, err
	}
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Summary, func(w io.Writer) error { return WriteSummary(w, outcomes) }},
		{files.Detail, func(w io.Writer) error { return WriteDetail(w, outcomes) }},
		{files.Timing, func(w io.Writer) error { return WriteTiming(w, algo, inst.Name, elapsed) }},
	}
	for _, fw := range writers {
		if err := WriteFile(fw.path, fw.write); err != nil {
			return files, err
		}
	}
	return files, nil
}

// WriteFile создаёт файл path и записывает в него содержимое через write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func WriteCSV(path string, records []Record) error {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return WriteFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)

		header := []string{
			"algo", "jobs", "machines", "runs",
			"time_best_ms", "time_mean_ms", "time_std_ms",
			"makespan_best", "makespan_mean", "makespan_std",
			"best_iteration_mean",
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for _, r := range records {
			row := []string{
				r.Algo,
				strconv.Itoa(r.Jobs),
				strconv.Itoa(r.Machines),
				strconv.Itoa(r.Runs),

				ftoa(r.TimeBestMs),
				ftoa(r.TimeMeanMs),
				ftoa(r.TimeStdMs),

				ftoa(r.MakespanBest),
				ftoa(r.MakespanMean),
				ftoa(r.MakespanStd),

				ftoa(r.BestIterationMean),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}

		w.Flush()
		return w.Error()
	})
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
