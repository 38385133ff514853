// Package config загружает параметры запуска Evosocial из файла.
//
// Поддерживаются два формата: YAML/JSON (по расширению .yaml, .yml, .json)
// и исходный пятистрочный формат DATOS.DAT:
//
//	число запусков
//	вероятность мутации
//	вероятность кроссовера
//	максимальное число поколений
//	размер популяции
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"evosocial/internal/evosocial"
)

// Load читает конфигурацию из path. Незаданные в YAML/JSON поля берутся из
// evosocial.DefaultConfig. Результат проходит валидацию.
func Load(path string) (evosocial.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return evosocial.Config{}, err
	}

	var cfg evosocial.Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		cfg, err = Parse(data)
	default:
		cfg, err = ReadLegacy(bytes.NewReader(data))
	}
	if err != nil {
		return evosocial.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return evosocial.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse разбирает YAML или JSON поверх значений по умолчанию.
func Parse(data []byte) (evosocial.Config, error) {
	cfg := evosocial.DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return evosocial.Config{}, err
	}
	return cfg, nil
}

// ReadLegacy разбирает формат DATOS.DAT. Пустые строки пропускаются,
// строки после пятой игнорируются.
func ReadLegacy(r io.Reader) (evosocial.Config, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for len(lines) < 5 && sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			lines = append(lines, s)
		}
	}
	if err := sc.Err(); err != nil {
		return evosocial.Config{}, err
	}
	if len(lines) < 5 {
		return evosocial.Config{}, fmt.Errorf("expected 5 values (got %d)", len(lines))
	}

	var (
		cfg  evosocial.Config
		errs []error
	)
	atoi := func(i int, name string) int {
		v, err := strconv.Atoi(lines[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d (%s): %w", i+1, name, err))
		}
		return v
	}
	atof := func(i int, name string) float64 {
		v, err := strconv.ParseFloat(lines[i], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d (%s): %w", i+1, name, err))
		}
		return v
	}

	cfg.Runs = atoi(0, "runs")
	cfg.MutationProb = atof(1, "mutation probability")
	cfg.CrossoverProb = atof(2, "crossover probability")
	cfg.MaxGenerations = atoi(3, "max generations")
	cfg.PopulationSize = atoi(4, "population size")
	if len(errs) > 0 {
		return evosocial.Config{}, errs[0]
	}
	return cfg, nil
}

// WriteLegacy записывает cfg в формате DATOS.DAT.
func WriteLegacy(w io.Writer, cfg evosocial.Config) error {
	_, err := fmt.Fprintf(w, "%d\n%s\n%s\n%d\n%d\n",
		cfg.Runs,
		strconv.FormatFloat(cfg.MutationProb, 'g', -1, 64),
		strconv.FormatFloat(cfg.CrossoverProb, 'g', -1, 64),
		cfg.MaxGenerations,
		cfg.PopulationSize,
	)
	return err
}

// Overrides — значения из флагов командной строки; nil означает «не задано».
type Overrides struct {
	Runs           *int
	MutationProb   *float64
	CrossoverProb  *float64
	MaxGenerations *int
	PopulationSize *int
}

// Apply возвращает cfg с подставленными заданными значениями.
func (o Overrides) Apply(cfg evosocial.Config) evosocial.Config {
	if o.Runs != nil {
		cfg.Runs = *o.Runs
	}
	if o.MutationProb != nil {
		cfg.MutationProb = *o.MutationProb
	}
	if o.CrossoverProb != nil {
		cfg.CrossoverProb = *o.CrossoverProb
	}
	if o.MaxGenerations != nil {
		cfg.MaxGenerations = *o.MaxGenerations
	}
	if o.PopulationSize != nil {
		cfg.PopulationSize = *o.PopulationSize
	}
	return cfg
}
