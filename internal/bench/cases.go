package bench

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCases разбирает список конфигураций вида "20x5,50x10".
// Сид экземпляра фиксирован для конфигурации и её позиции в списке.
func ParseCases(s string, baseInstanceSeed int64) ([]Case, error) {
	parts := SplitList(s)
	cases := make([]Case, 0, len(parts))

	for i, p := range parts {
		j, m, ok := strings.Cut(p, "x")
		if !ok {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 50x10", p)
		}
		jobs, err := strconv.Atoi(strings.TrimSpace(j))
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества работ: %w", p, err)
		}
		machines, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества машин: %w", p, err)
		}
		if jobs <= 0 || machines <= 0 {
			return nil, fmt.Errorf("пара %q: количество работ и машин должно быть > 0", p)
		}

		cases = append(cases, Case{
			Jobs:         jobs,
			Machines:     machines,
			InstanceSeed: baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(machines),
		})
	}
	return cases, nil
}

// SplitList разбивает список через запятую, отбрасывая пустые элементы.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
