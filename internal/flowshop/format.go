package flowshop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadInstance читает экземпляр в текстовом формате:
//
//	<верхняя граница>
//	<нижняя граница>
//	<N времён обработки для станка 1>
//	...
//	<N времён обработки для станка M>
//
// Пустые строки пропускаются. Число работ определяется по первой строке станка.
func ReadInstance(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var header []int
	var rows [][]int
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		vals, err := atoiFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(header) < 2 {
			if len(vals) != 1 {
				return nil, fmt.Errorf("line %d: expected a single bound value (got %d values)", line, len(vals))
			}
			header = append(header, vals[0])
			continue
		}
		if len(rows) > 0 && len(vals) != len(rows[0]) {
			return nil, fmt.Errorf("line %d: machine %d: expected %d values (got %d)", line, len(rows)+1, len(rows[0]), len(vals))
		}
		rows = append(rows, vals)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("instance header must contain upper and lower bound")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("instance contains no machine rows")
	}
	return FromMatrix(rows, header[0], header[1])
}

// LoadInstance читает экземпляр из файла; имя экземпляра — имя файла без расширения.
func LoadInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := ReadInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Base(path)
	inst.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return inst, nil
}

// WriteInstance записывает экземпляр в формате ReadInstance.
func WriteInstance(w io.Writer, inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", inst.UpperBound, inst.LowerBound)
	for m := 0; m < inst.Machines; m++ {
		for j, v := range inst.Row(m) {
			if j > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%3d", v)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadJSPLIB конвертирует экземпляр job-shop в формате JSPLIB
// (строки-комментарии '#', строка "работы станки", затем по строке на работу
// из пар "станок время") в матрицу flow-shop. Маршрут работы отбрасывается:
// время операции попадает в строку указанного станка.
func ReadJSPLIB(r io.Reader, upper, lower int) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	jobs, machines := -1, -1
	var times [][]int
	job := 0
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		vals, err := atoiFields(strings.Fields(text))
		if err != nil {
			if jobs < 0 {
				// до заголовка допускаются произвольные строки (имя экземпляра и т.п.)
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if jobs < 0 {
			if len(vals) < 2 {
				continue
			}
			jobs, machines = vals[0], vals[1]
			if jobs <= 0 || machines <= 0 {
				return nil, fmt.Errorf("line %d: invalid dimensions %dx%d", line, jobs, machines)
			}
			times = make([][]int, machines)
			for m := range times {
				times[m] = make([]int, jobs)
			}
			continue
		}
		if job >= jobs {
			break
		}
		if len(vals) < 2*machines {
			return nil, fmt.Errorf("line %d: job %d: expected %d machine/time pairs (got %d values)", line, job+1, machines, len(vals))
		}
		for op := 0; op < machines; op++ {
			m, t := vals[2*op], vals[2*op+1]
			if m < 0 || m >= machines {
				return nil, fmt.Errorf("line %d: job %d: machine %d out of range [0,%d)", line, job+1, m, machines)
			}
			times[m][job] = t
		}
		job++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if jobs < 0 {
		return nil, fmt.Errorf("JSPLIB header not found")
	}
	if job != jobs {
		return nil, fmt.Errorf("expected %d jobs (got %d)", jobs, job)
	}
	return FromMatrix(times, upper, lower)
}

func atoiFields(fields []string) ([]int, error) {
	vals := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
