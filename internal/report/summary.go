package report

import (
	"errors"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"evosocial/internal/bench"
)

// RenderSummary пишет HTML-страницу со столбчатыми диаграммами по запускам:
// ошибка лучшего, ошибка популяции, лучший makespan, поколение лучшего.
// Последней идёт средняя кривая сходимости.
func RenderSummary(w io.Writer, title string, outcomes []bench.Outcome) error {
	if len(outcomes) == 0 {
		return errors.New("no runs to render")
	}

	runs := make([]string, len(outcomes))
	for i, o := range outcomes {
		runs[i] = strconv.Itoa(o.Run)
	}

	series := []struct {
		name  string
		value func(bench.Outcome) float64
	}{
		{"Best error (%)", func(o bench.Outcome) float64 { return o.BestError }},
		{"Population error (%)", func(o bench.Outcome) float64 { return o.PopError }},
		{"Best makespan", func(o bench.Outcome) float64 { return float64(o.Result.Makespan) }},
		{"Generation of best", func(o bench.Outcome) float64 { return float64(o.Result.BestIteration) }},
	}

	page := components.NewPage()
	for _, s := range series {
		data := make([]opts.BarData, len(outcomes))
		for i, o := range outcomes {
			data[i] = opts.BarData{Value: s.value(o)}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: title, Subtitle: s.name}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
			charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
		)
		bar.SetXAxis(runs).AddSeries(s.name, data)
		page.AddCharts(bar)
	}

	mean := Mean("mean", FromOutcomes(outcomes))
	gens := make([]string, len(mean.Points))
	values := make([]opts.LineData, len(mean.Points))
	for i, pt := range mean.Points {
		gens[i] = strconv.Itoa(int(pt.X))
		values[i] = opts.LineData{Value: pt.Y}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Mean best makespan"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "makespan"}),
	)
	line.SetXAxis(gens).AddSeries("mean", values)
	page.AddCharts(line)

	return page.Render(w)
}
