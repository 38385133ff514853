// Package analysis сравнивает результаты двух алгоритмов по сохранённым
// файлам серий запусков (resumen_*, detalle_*, tiempo_ejecucion_*).
package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"evosocial/internal/bench"
)

// RunSummary — строка файла сводки.
type RunSummary struct {
	Run              int
	BestError        float64
	PopError         float64
	BestMakespan     float64
	GenerationOfBest int
}

// DetailPoint — строка файла детализации.
type DetailPoint struct {
	Generation   int
	BestMakespan float64
	Evaluations  int
}

// Timing — время выполнения серии запусков.
type Timing struct {
	Instance string
	Seconds  float64
}

// InstanceResults — результаты одного алгоритма на одном экземпляре.
type InstanceResults struct {
	Name   string
	Runs   []RunSummary
	Detail []DetailPoint
	// Timing == nil, если файл времени отсутствует.
	Timing *Timing
}

// Makespans возвращает лучшие makespan всех запусков.
func (r InstanceResults) Makespans() []float64 {
	out := make([]float64, len(r.Runs))
	for i, s := range r.Runs {
		out[i] = s.BestMakespan
	}
	return out
}

// Generations возвращает поколения, в которых найдены лучшие решения.
func (r InstanceResults) Generations() []float64 {
	out := make([]float64, len(r.Runs))
	for i, s := range r.Runs {
		out[i] = float64(s.GenerationOfBest)
	}
	return out
}

// ReadSummary читает файл сводки. Пустые строки и строки короче пяти полей пропускаются.
func ReadSummary(r io.Reader) ([]RunSummary, error) {
	var out []RunSummary
	err := scanFields(r, 5, func(line int, f []string) error {
		var (
			s   RunSummary
			err error
		)
		if s.Run, err = strconv.Atoi(f[0]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vals, err := parseFloats(f[1:4])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		s.BestError, s.PopError, s.BestMakespan = vals[0], vals[1], vals[2]
		if s.GenerationOfBest, err = strconv.Atoi(f[4]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

// ReadDetail читает файл детализации.
func ReadDetail(r io.Reader) ([]DetailPoint, error) {
	var out []DetailPoint
	err := scanFields(r, 3, func(line int, f []string) error {
		var (
			p   DetailPoint
			err error
		)
		if p.Generation, err = strconv.Atoi(f[0]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if p.BestMakespan, err = strconv.ParseFloat(f[1], 64); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if p.Evaluations, err = strconv.Atoi(f[2]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// SplitRuns разбивает детализацию на запуски: новый запуск начинается,
// когда номер поколения не растёт.
func SplitRuns(points []DetailPoint) [][]DetailPoint {
	var runs [][]DetailPoint
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].Generation <= points[i-1].Generation {
			runs = append(runs, points[start:i])
			start = i
		}
	}
	return runs
}

var legacySeconds = regexp.MustCompile(`(\d+\.?\d*)\s*segundos?`)

// ReadTiming читает файл времени. Помимо формата WriteTiming понимает
// строки «Instancia: …» и «Tiempo de ejecución: N segundos».
func ReadTiming(r io.Reader) (Timing, error) {
	var (
		t     Timing
		found bool
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "instance:"):
			t.Instance = strings.TrimSpace(strings.TrimPrefix(line, "instance:"))
		case strings.HasPrefix(line, "Instancia:"):
			t.Instance = strings.TrimSpace(strings.TrimPrefix(line, "Instancia:"))
		case strings.HasPrefix(line, "seconds:"):
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "seconds:")), 64)
			if err != nil {
				return Timing{}, err
			}
			t.Seconds, found = v, true
		case strings.Contains(line, "Tiempo de ejecución:"), strings.Contains(line, "Tiempo de ejecucion:"):
			if m := legacySeconds.FindStringSubmatch(line); m != nil {
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					return Timing{}, err
				}
				t.Seconds, found = v, true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Timing{}, err
	}
	if !found {
		return Timing{}, errors.New("execution time not found")
	}
	return t, nil
}

// LoadDir загружает результаты алгоритма algo для всех экземпляров, для
// которых в dir есть файл сводки. Детализация и время необязательны.
// Результат упорядочен по имени экземпляра.
func LoadDir(dir, algo string) ([]InstanceResults, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "resumen_*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	out := make([]InstanceResults, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "resumen_"), ".txt")
		res, err := LoadInstance(dir, algo, name)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// LoadInstance загружает результаты algo на экземпляре name из dir.
func LoadInstance(dir, algo, name string) (InstanceResults, error) {
	files := bench.ResultFiles(dir, algo, name)
	res := InstanceResults{Name: name}

	if err := readFile(files.Summary, func(r io.Reader) (err error) {
		res.Runs, err = ReadSummary(r)
		return err
	}); err != nil {
		return InstanceResults{}, err
	}

	err := readFile(files.Detail, func(r io.Reader) (err error) {
		res.Detail, err = ReadDetail(r)
		return err
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return InstanceResults{}, err
	}

	err = readFile(files.Timing, func(r io.Reader) error {
		t, err := ReadTiming(r)
		if err != nil {
			return err
		}
		res.Timing = &t
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return InstanceResults{}, err
	}
	return res, nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func scanFields(r io.Reader, minFields int, fn func(line int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) < minFields {
			continue
		}
		if err := fn(line, f); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
