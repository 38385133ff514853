package ga

import "math/rand"

// shufflePermutation выполняет случайную перестановку элементов.
func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}

// tournamentSelect реализует турнирный отбор.
// Возвращается индекс особи с минимальным makespan среди участников турнира.
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < scores[best] {
			best = cand
		}
	}
	return best
}

// maxRedraws — число повторных турниров за второго родителя, после которого
// он выбирается равномерно среди остальных особей.
const maxRedraws = 8

// secondParent выбирает турниром родителя, отличного от p1.
func secondParent(scores []float64, p1, tournamentSize int, rng *rand.Rand) int {
	for k := 0; k < maxRedraws; k++ {
		if p2 := tournamentSelect(scores, tournamentSize, rng); p2 != p1 {
			return p2
		}
	}
	n := len(scores)
	return (p1 + 1 + rng.Intn(n-1)) % n
}

// crossoverOX — Order Crossover с отрезком [a, b) произвольной ненулевой длины.
// mark индексируется идентификатором работы (1..n), stamp позволяет не очищать его
// между вызовами.
type crossoverOX struct {
	mark  []int
	stamp int
}

func newCrossoverOX(n int) *crossoverOX {
	return &crossoverOX{mark: make([]int, n+1)}
}

func (x *crossoverOX) apply(p1, p2, c1, c2 []int, rng *rand.Rand) {
	n := len(p1)

	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	if a == b {
		// Что бы длина сегмента не была 0
		b = (a + 1) % n
		if a > b {
			a, b = b, a
		}
	}

	x.child(p1, p2, c1, a, b)
	x.child(p2, p1, c2, a, b)
}

// child копирует отрезок [a, b) из seg и дописывает гены other по кругу, начиная с b.
func (x *crossoverOX) child(seg, other, dst []int, a, b int) {
	n := len(seg)
	x.stamp++
	cur := x.stamp

	for i := range dst {
		dst[i] = 0
	}
	for i := a; i < b; i++ {
		dst[i] = seg[i]
		x.mark[seg[i]] = cur
	}

	pos := b % n
	for i := 0; i < n; i++ {
		gene := other[(b+i)%n]
		if x.mark[gene] == cur {
			continue
		}
		for dst[pos] != 0 {
			pos = (pos + 1) % n
		}
		dst[pos] = gene
		x.mark[gene] = cur
	}
}

// mutateSwap реализует оператор мутации Swap.
func mutateSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}
