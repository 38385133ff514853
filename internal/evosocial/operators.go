package evosocial

import (
	"fmt"
	"math/rand"
)

// flip возвращает true с вероятностью p.
func flip(p float64, rng *rand.Rand) bool {
	return rng.Float64() < p
}

// distinctPair выбирает два различных равномерно распределённых числа из [lo, hi].
func distinctPair(rng *rand.Rand, lo, hi int) (int, int) {
	span := hi - lo + 1
	if span < 2 {
		panic(fmt.Sprintf("distinctPair: range [%d,%d] has fewer than two values", lo, hi))
	}
	i := rng.Intn(span)
	j := rng.Intn(span - 1)
	if j >= i {
		j++
	}
	return lo + i, lo + j
}

// cutPoints возвращает сегмент кроссовера [lo, hi) в индексах с нуля.
// Точки разреза c1 < c2 выбираются из 2..n-1 (нумерация с единицы),
// сегмент включает позиции c1..c2.
func cutPoints(n int, rng *rand.Rand) (lo, hi int) {
	c1, c2 := distinctPair(rng, 2, n-1)
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return c1 - 1, c2
}

// Crossover реализует Order Crossover с двумя потомками.
// childA наследует сегмент от a и порядок остальных генов от b, а childB наоборот.
// Каждый потомок затем с вероятностью mutationProb подвергается мутации обмена.
// Требует len(a) >= 4.
func Crossover(a, b Chromosome, mutationProb float64, rng *rand.Rand) (Chromosome, Chromosome) {
	n := len(a)
	lo, hi := cutPoints(n, rng)

	need := make([]int, n+1)
	childA := make(Chromosome, n)
	childB := make(Chromosome, n)
	orderCrossover(a, b, childA, lo, hi, need)
	orderCrossover(b, a, childB, lo, hi, need)

	if flip(mutationProb, rng) {
		ExchangeMutate(childA, rng)
	}
	if flip(mutationProb, rng) {
		ExchangeMutate(childB, rng)
	}
	return childA, childB
}

// orderCrossover строит потомка dst: сегмент [lo, hi) копируется из seg,
// остальные позиции (начиная с hi, по кругу до lo) заполняются генами donor
// в порядке обхода donor с позиции hi. Ген берётся, пока его кратность в dst
// меньше кратности в seg, так что состав dst совпадает с составом seg.
func orderCrossover(seg, donor, dst []int, lo, hi int, need []int) {
	n := len(seg)

	for i := range need {
		need[i] = 0
	}
	for _, g := range seg {
		need[g]++
	}

	// Копирование сегмента
	for i := lo; i < hi; i++ {
		dst[i] = seg[i]
		need[seg[i]]--
	}

	// Заполнение оставшихся позиций
	free := n - (hi - lo)
	pos := hi % n
	for k := 0; k < n && free > 0; k++ {
		g := donor[(hi+k)%n]
		if need[g] <= 0 {
			continue
		}
		need[g]--
		dst[pos] = g
		free--
		pos = (pos + 1) % n
	}
}

// ExchangeMutate меняет местами значения в двух различных случайных позициях.
func ExchangeMutate(c []int, rng *rand.Rand) {
	if len(c) < 2 {
		return
	}
	i, j := distinctPair(rng, 0, len(c)-1)
	c[i], c[j] = c[j], c[i]
}

// ShiftMutate перемещает случайный ген на s ∈ [1, n-1] позиций влево или вправо
// (с вероятностью 1/2) с переходом через границу массива.
// Возвращает исходную и новую позиции гена.
func ShiftMutate(c []int, rng *rand.Rand) (from, to int) {
	n := len(c)
	if n < 2 {
		return 0, 0
	}
	from = rng.Intn(n)
	steps := 1 + rng.Intn(n-1)
	if flip(0.5, rng) {
		steps = -steps
	}
	return from, shiftCircular(c, from, steps)
}

// shiftCircular переносит элемент из позиции from на steps позиций
// (отрицательное значение означает сдвиг влево). Элементы на пути сдвигаются на одну
// позицию навстречу, массив рассматривается как кольцо.
// Возвращает новую позицию элемента.
func shiftCircular(c []int, from, steps int) int {
	n := len(c)
	to := from + steps
	if to >= 0 && to < n {
		relocate(c, from, to)
		return to
	}

	val := c[from]
	cur := from
	dir := 1
	if steps < 0 {
		dir = -1
		steps = -steps
	}
	for k := 0; k < steps; k++ {
		next := (cur + dir + n) % n
		c[cur] = c[next]
		cur = next
	}
	c[cur] = val
	return cur
}

// relocate перемещает элемент из позиции i в позицию j без перехода через границу.
func relocate(p []int, i, j int) {
	val := p[i]
	if i < j {
		// Сдвиг элементов влево
		copy(p[i:j], p[i+1:j+1])
	} else {
		// Сдвиг элементов вправо
		copy(p[j+1:i+1], p[j:i])
	}
	p[j] = val
}
