package evosocial

import (
	"math"
	"time"

	"evosocial/internal/opt"
)

// GenerationStats — статистика кандидатов одного поколения.
type GenerationStats struct {
	Generation int
	Min        float64
	Max        float64
	Sum        float64
	Count      int
	Mean       float64
}

func newGenerationStats(gen int, seed float64) GenerationStats {
	return GenerationStats{Generation: gen, Min: seed, Max: seed}
}

func (s *GenerationStats) observe(objective float64) {
	if objective < s.Min {
		s.Min = objective
	}
	if objective > s.Max {
		s.Max = objective
	}
	s.Sum += objective
	s.Count++
}

// RunResult — итог одного запуска.
type RunResult struct {
	Best             Individual
	BestMakespan     float64
	GenerationOfBest int

	// BestRelativeError и MeanRelativeError — отклонение (в процентах)
	// лучшего решения и среднего последнего поколения от верхней границы экземпляра.
	BestRelativeError float64
	MeanRelativeError float64

	LastGeneration GenerationStats
	History        []opt.GenerationRecord

	// Evaluations — счётчик оценок в принятой исторически форме:
	// +PopulationSize за поколение.
	Evaluations int
	// Decodes — фактическое число вызовов декодера.
	Decodes int

	Duration time.Duration
}

// Generations возвращает число завершённых поколений.
func (r RunResult) Generations() int {
	return len(r.History)
}

// RelativeError возвращает |ref - x| / ref * 100, при ref = 0 возвращает +Inf.
func RelativeError(ref, x float64) float64 {
	if ref == 0 {
		return math.Inf(1)
	}
	return math.Abs(ref-x) / ref * 100
}
