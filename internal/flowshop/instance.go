package flowshop

import (
	"errors"
	"fmt"
	"math/rand"
)

// Instance — экземпляр задачи flow-shop.
// Все работы проходят станки в одном и том же порядке 0..Machines-1.
type Instance struct {
	Name     string
	Jobs     int
	Machines int
	// ProcTimes хранится по станкам: ProcTimes[m*Jobs+j], длина Jobs*Machines.
	ProcTimes []int

	// Эталонные значения makespan; на поиск не влияют.
	UpperBound int
	LowerBound int
}

func NewInstance(jobs, machines int, procTimes []int) (*Instance, error) {
	inst := &Instance{Jobs: jobs, Machines: machines, ProcTimes: procTimes}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// FromMatrix строит экземпляр из матрицы time[m][j] (станки × работы).
func FromMatrix(times [][]int, upper, lower int) (*Instance, error) {
	if len(times) == 0 {
		return nil, errors.New("processing-time matrix has no machines")
	}
	jobs := len(times[0])
	pt := make([]int, 0, jobs*len(times))
	for m, row := range times {
		if len(row) != jobs {
			return nil, fmt.Errorf("machine %d: expected %d processing times (got %d)", m+1, jobs, len(row))
		}
		pt = append(pt, row...)
	}
	inst, err := NewInstance(jobs, len(times), pt)
	if err != nil {
		return nil, err
	}
	inst.UpperBound = upper
	inst.LowerBound = lower
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0 (got %d)", inst.Jobs)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("machines must be > 0 (got %d)", inst.Machines)
	}
	if len(inst.ProcTimes) != inst.Jobs*inst.Machines {
		return fmt.Errorf("procTimes length must be jobs*machines=%d (got %d)", inst.Jobs*inst.Machines, len(inst.ProcTimes))
	}
	for i, v := range inst.ProcTimes {
		if v < 0 {
			return fmt.Errorf("procTimes[%d] must be >= 0 (got %d)", i, v)
		}
	}
	return nil
}

// Time возвращает время обработки работы job (с нуля) на станке machine (с нуля).
func (inst *Instance) Time(job, machine int) int {
	return inst.ProcTimes[machine*inst.Jobs+job]
}

// Row возвращает строку матрицы для станка machine. Срез разделяет память с экземпляром.
func (inst *Instance) Row(machine int) []int {
	return inst.ProcTimes[machine*inst.Jobs : (machine+1)*inst.Jobs]
}

func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minTime < 0 || maxTime < 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	pt := make([]int, jobs*machines)
	span := maxTime - minTime + 1
	for i := range pt {
		pt[i] = minTime
		if span > 1 {
			pt[i] += rng.Intn(span)
		}
	}
	inst, err := NewInstance(jobs, machines, pt)
	if err != nil {
		panic(err)
	}
	inst.Name = fmt.Sprintf("%dx%d", jobs, machines)
	return inst
}
