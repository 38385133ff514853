// Package report строит графики по результатам серий запусков.
package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"evosocial/internal/bench"
	"evosocial/internal/opt"
)

// Curve — кривая сходимости: лучший makespan к каждому поколению.
type Curve struct {
	Label  string
	Points plotter.XYs
}

// FromRecords строит кривую по записям сходимости.
func FromRecords(label string, recs []opt.GenerationRecord) Curve {
	pts := make(plotter.XYs, len(recs))
	for i, r := range recs {
		pts[i].X = float64(r.Generation)
		pts[i].Y = r.BestMakespan
	}
	return Curve{Label: label, Points: pts}
}

// FromOutcomes строит по кривой на запуск.
func FromOutcomes(outcomes []bench.Outcome) []Curve {
	curves := make([]Curve, len(outcomes))
	for i, o := range outcomes {
		curves[i] = FromRecords(fmt.Sprintf("run %d", o.Run), o.Result.Convergence)
	}
	return curves
}

// Mean возвращает поточечное среднее кривых. Длина результата равна
// длине самой короткой кривой.
func Mean(label string, curves []Curve) Curve {
	if len(curves) == 0 {
		return Curve{Label: label}
	}
	n := len(curves[0].Points)
	for _, c := range curves[1:] {
		n = min(n, len(c.Points))
	}
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i].X = curves[0].Points[i].X
		for _, c := range curves {
			pts[i].Y += c.Points[i].Y
		}
		pts[i].Y /= float64(len(curves))
	}
	return Curve{Label: label, Points: pts}
}

// PlotConvergence сохраняет график кривых в path; формат определяется расширением
// (png, svg, pdf).
func PlotConvergence(path, title string, curves []Curve) error {
	if len(curves) == 0 {
		return errors.New("no curves to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Best makespan"
	p.Add(plotter.NewGrid())

	for i, c := range curves {
		line, err := plotter.NewLine(c.Points)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Label, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		// Легенда только для небольшого числа кривых.
		if len(curves) <= 10 {
			p.Legend.Add(c.Label, line)
		}
	}
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
