package flowshop

import "fmt"

// ValidatePermutation проверяет, что perm — перестановка идентификаторов работ 1..n.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("permutation length must be %d (got %d)", n, len(perm))
	}
	seen := make([]bool, n+1)
	for i, v := range perm {
		if v < 1 || v > n {
			return fmt.Errorf("perm[%d]=%d out of range [1,%d]", i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("duplicate job id %d in permutation", v)
		}
		seen[v] = true
	}
	return nil
}

// IdentityPermutation заполняет p значениями [1, 2, ..., n].
func IdentityPermutation(p []int) {
	for i := range p {
		p[i] = i + 1
	}
}
