package opt

import "fmt"

// GenerationRecord — точка кривой сходимости.
type GenerationRecord struct {
	Generation   int
	BestMakespan float64
	// Evaluations — накопленное число оценок к концу поколения.
	Evaluations int
}

// Recorder накапливает записи сходимости. Записи только добавляются.
type Recorder struct {
	records []GenerationRecord
}

func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{records: make([]GenerationRecord, 0, capacity)}
}

// Append добавляет запись. Номера поколений должны строго возрастать.
func (r *Recorder) Append(rec GenerationRecord) {
	if n := len(r.records); n > 0 && rec.Generation <= r.records[n-1].Generation {
		panic(fmt.Sprintf("generation %d recorded after generation %d", rec.Generation, r.records[n-1].Generation))
	}
	r.records = append(r.records, rec)
}

// Records возвращает копию накопленной истории.
func (r *Recorder) Records() []GenerationRecord {
	out := make([]GenerationRecord, len(r.records))
	copy(out, r.records)
	return out
}
