package bench

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary — описательная статистика выборки (минимизация: Best — минимум).
type Summary struct {
	N      int
	Best   float64
	Worst  float64
	Mean   float64
	Std    float64
	Median float64
}

// Describe считает статистику values. Std — несмещённая оценка, 0 при N < 2.
func Describe(values []float64) Summary {
	s := Summary{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Best = floats.Min(values)
	s.Worst = floats.Max(values)
	if s.N >= 2 {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}

	sorted := make([]float64, s.N)
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := s.N / 2
	if s.N%2 == 1 {
		s.Median = sorted[mid]
	} else {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return s
}
