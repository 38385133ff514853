package flowshop

import (
	"fmt"
	"math"
)

// Evaluator вычисляет makespan перестановки работ.
// Хранит рабочий буфер, поэтому один Evaluator не должен использоваться
// из нескольких горутин; сам Instance при этом только читается.
type Evaluator struct {
	inst              *Instance
	machineCompletion []int
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, machineCompletion: make([]int, inst.Machines)}, nil
}

// Decode возвращает makespan и приспособленность (1/makespan) перестановки perm
// идентификаторов 1..Jobs. Корректность перестановки проверяет вызывающий.
func (e *Evaluator) Decode(perm []int) (makespan, fitness float64) {
	ms := e.completion(perm)
	makespan = float64(ms)
	if ms == 0 {
		return makespan, math.Inf(1)
	}
	return makespan, 1 / makespan
}

func (e *Evaluator) Makespan(perm []int) (int, error) {
	if e == nil || e.inst == nil {
		return 0, fmt.Errorf("nil evaluator")
	}
	if err := ValidatePermutation(perm, e.inst.Jobs); err != nil {
		return 0, err
	}
	return e.completion(perm), nil
}

// Jobs возвращает число работ экземпляра.
func (e *Evaluator) Jobs() int { return e.inst.Jobs }

// completion — моделирование flow-shop: работа начинается на станке m,
// когда она завершена на станке m-1 и станок m освободился от предыдущей работы.
func (e *Evaluator) completion(perm []int) int {
	for m := range e.machineCompletion {
		e.machineCompletion[m] = 0
	}

	for _, id := range perm {
		job := id - 1
		e.machineCompletion[0] += e.inst.Time(job, 0)
		for m := 1; m < e.inst.Machines; m++ {
			left := e.machineCompletion[m-1]
			up := e.machineCompletion[m]
			if left > up {
				e.machineCompletion[m] = left + e.inst.Time(job, m)
			} else {
				e.machineCompletion[m] = up + e.inst.Time(job, m)
			}
		}
	}
	return e.machineCompletion[e.inst.Machines-1]
}
