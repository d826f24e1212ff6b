// Package charts renders valuation results as interactive HTML charts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/format"
	"vc-valuation/pkg/mathutil"
)

// BreakdownPie builds the valuation breakdown donut for one scenario:
// enterprise value against the debt and cash adjustments that bridge to the
// equity value.
func BreakdownPie(result valuation.Valuation) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Valuation Breakdown - %s", result.Scenario),
			Subtitle: "Equity value " + format.Currency(result.Currency, result.Metrics.EquityValue),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	// Debt and cash slices appear only when non-zero.
	data := []opts.PieData{
		{Name: "Enterprise Value", Value: result.Metrics.EnterpriseValue},
	}
	if !mathutil.IsZero(result.Input.FinancialDebt) {
		data = append(data, opts.PieData{Name: "Debt", Value: result.Input.FinancialDebt})
	}
	if !mathutil.IsZero(result.Input.CashBalance) {
		data = append(data, opts.PieData{Name: "Cash", Value: result.Input.CashBalance})
	}
	pie.AddSeries("breakdown", data).
		SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "70%"},
		}))

	return pie
}

// SensitivityLine builds the IRR-vs-discount-rate line for one scenario.
func SensitivityLine(result valuation.Valuation) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("IRR Sensitivity to Discount Rate - %s", result.Scenario),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Discount Rate (%)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "IRR (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xAxis := make([]string, 0, len(result.Sensitivity))
	series := make([]opts.LineData, 0, len(result.Sensitivity))
	for _, point := range result.Sensitivity {
		xAxis = append(xAxis, fmt.Sprintf("%.1f", point.DiscountRate*100))
		series = append(series, opts.LineData{Value: point.IRR * 100})
	}

	line.SetXAxis(xAxis).
		AddSeries("IRR", series).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}

// RenderPage writes a standalone HTML page holding the breakdown and
// sensitivity charts for every scenario.
func RenderPage(w io.Writer, results []valuation.Valuation) error {
	page := components.NewPage()
	page.PageTitle = "VC Valuation Charts"

	for _, result := range results {
		page.AddCharts(BreakdownPie(result), SensitivityLine(result))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}
