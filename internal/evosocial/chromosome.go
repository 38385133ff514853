package evosocial

import (
	"fmt"
	"math/rand"

	"evosocial/internal/flowshop"
)

// Chromosome — порядок запуска работ, перестановка идентификаторов 1..N.
type Chromosome []int

// NewChromosome возвращает случайную перестановку 1..n.
func NewChromosome(n int, rng *rand.Rand) Chromosome {
	c := make(Chromosome, n)
	flowshop.IdentityPermutation(c)
	shufflePermutation(c, rng)
	return c
}

func (c Chromosome) Clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// Validate проверяет инвариант перестановки.
func (c Chromosome) Validate() error {
	if err := flowshop.ValidatePermutation(c, len(c)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChromosome, err)
	}
	return nil
}

// ValidateFor проверяет, что c — перестановка работ 1..jobs.
func (c Chromosome) ValidateFor(jobs int) error {
	if len(c) != jobs {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidChromosome, len(c), jobs)
	}
	return c.Validate()
}

// shufflePermutation выполняет случайную перестановку элементов.
func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
