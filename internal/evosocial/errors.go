package evosocial

import "errors"

var (
	// ErrInvalidChromosome — хромосома не является перестановкой 1..N.
	// Это дефект оператора, а не восстанавливаемая ситуация: запуск прерывается.
	ErrInvalidChromosome = errors.New("invalid chromosome")

	// ErrDegenerateInstance — экземпляр непригоден для эволюции (N < 4, нет станков или работ).
	ErrDegenerateInstance = errors.New("degenerate instance")
)

// MinJobs — минимальное число работ, при котором кроссовер может выбрать
// две различные точки разреза.
const MinJobs = 4
