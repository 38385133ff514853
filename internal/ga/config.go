package ga

import "fmt"

// Config — параметры поколенческого ГА, используемого как базовая линия для сравнения.
type Config struct {
	Population     int     `json:"population"`
	Generations    int     `json:"generations"`
	Elite          int     `json:"elite"`
	TournamentSize int     `json:"tournamentSize"`
	CrossoverRate  float64 `json:"crossoverRate"`
	MutationRate   float64 `json:"mutationRate"`
}

func (c Config) Validate() error {
	if c.Population <= 1 {
		return fmt.Errorf(
			"размер популяции должен быть > 1 (получено %d)",
			c.Population,
		)
	}
	if c.Generations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.Generations,
		)
	}
	if c.Elite < 0 || c.Elite >= c.Population {
		return fmt.Errorf(
			"число элитных особей должно быть в диапазоне [0, population) (получено %d)",
			c.Elite,
		)
	}
	if c.TournamentSize <= 0 || c.TournamentSize > c.Population {
		return fmt.Errorf(
			"размер турнира должен быть в диапазоне [1, population] (получено %d)",
			c.TournamentSize,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationRate,
		)
	}
	return nil
}

// DefaultConfig — параметры, сопоставимые с настройками Evosocial по умолчанию
// (250 особей, 500 поколений, кроссовер 0.65, мутация 0.05).
func DefaultConfig() Config {
	return Config{
		Population:     250,
		Generations:    500,
		Elite:          1,
		TournamentSize: 3,
		CrossoverRate:  0.65,
		MutationRate:   0.05,
	}
}
