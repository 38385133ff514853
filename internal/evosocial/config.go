package evosocial

import "fmt"

// Config — параметры запуска Evosocial.
type Config struct {
	// Runs — число независимых запусков (используется оркестрацией, не самим контроллером).
	Runs           int     `json:"runs"`
	MutationProb   float64 `json:"mutationProb"`
	CrossoverProb  float64 `json:"crossoverProb"`
	MaxGenerations int     `json:"maxGenerations"`
	PopulationSize int     `json:"populationSize"`
}

func (c Config) Validate() error {
	if c.Runs <= 0 {
		return fmt.Errorf(
			"количество запусков должно быть > 0 (получено %d)",
			c.Runs,
		)
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationProb,
		)
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverProb,
		)
	}
	if c.MaxGenerations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.MaxGenerations,
		)
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf(
			"размер популяции должен быть > 0 (получено %d)",
			c.PopulationSize,
		)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Runs:           30,
		MutationProb:   0.05,
		CrossoverProb:  0.65,
		MaxGenerations: 500,
		PopulationSize: 250,
	}
}
