package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/codearcheology/archeo/pkg/report"
)

const (
	plotChartHeight = "500px"
	plotPieRadius   = "60%"
)

// WritePlot renders an HTML dashboard for rep: a language distribution pie
// and a findings-per-category bar chart.
func WritePlot(w io.Writer, rep *report.Report) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s - Analysis", rep.ProjectName)
	page.AddCharts(
		languagePieChart(rep),
		findingsBarChart(rep),
	)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render plot page: %w", err)
	}

	return nil
}

func languagePieChart(rep *report.Report) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Language Distribution"}),
		charts.WithInitializationOpts(opts.Initialization{Height: plotChartHeight}),
	)

	names := make([]string, 0, len(rep.Languages))
	for name := range rep.Languages {
		names = append(names, name)
	}

	sort.Strings(names)

	pieData := make([]opts.PieData, len(names))
	for i, name := range names {
		pieData[i] = opts.PieData{Name: name, Value: rep.Languages[name]}
	}

	pie.AddSeries("Languages", pieData).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: plotPieRadius}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
		)

	return pie
}

func findingsBarChart(rep *report.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Findings by Category"}),
		charts.WithInitializationOpts(opts.Initialization{Height: plotChartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	bar.SetXAxis([]string{"Security Issues", "Code Smells", "Business Logic"})
	bar.AddSeries("Findings", []opts.BarData{
		{Value: len(rep.SecurityIssues)},
		{Value: len(rep.CodeSmells)},
		{Value: len(rep.BusinessLogic)},
	})

	return bar
}
