// Package report renders valuation results as a markdown report and parses
// the numeric key metrics back out of one.
package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/format"
)

// Metadata describes the report header fields.
type Metadata struct {
	ValuationDate string
	GeneratedAt   string
}

// Markdown renders the full valuation report for all scenarios.
func Markdown(results []valuation.Valuation, meta Metadata) (string, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("VC Valuation Report")

	if meta.ValuationDate != "" {
		doc.PlainTextf("%s %s", md.Bold("Valuation Date:"), meta.ValuationDate)
	}
	if meta.GeneratedAt != "" {
		doc.PlainTextf("%s %s", md.Bold("Generated:"), meta.GeneratedAt)
	}

	for _, result := range results {
		writeScenario(doc, result)
	}

	if len(results) > 1 {
		writeComparison(doc, results)
	}

	if err := doc.Build(); err != nil {
		return "", fmt.Errorf("failed to build markdown report: %w", err)
	}
	return buf.String(), nil
}

func writeScenario(doc *md.Markdown, result valuation.Valuation) {
	doc.H2(result.Scenario)
	doc.PlainTextf("%s Year %d | %s %s", md.Bold("Exit Year:"), result.Input.ExitYear, md.Bold("Currency:"), result.Currency)

	doc.H3("Key Metrics")
	doc.BulletList(
		metricLine("Company Equity Value", result.Currency, result.Metrics.EquityValue),
		metricLine("Present Value", result.Currency, result.Metrics.PresentValue),
		fmt.Sprintf("%s %s", md.Bold("Investor IRR:"), format.Percent(result.Metrics.InvestorIRR)),
		fmt.Sprintf("%s %s", md.Bold("Cash Multiple:"), format.Multiple(result.Metrics.CashOnCash)),
		metricLine("Investment Required", result.Currency, result.Metrics.InvestmentAmount),
	)

	doc.H3("Assumptions")
	doc.BulletList(
		metricLine("Exit Revenue", result.Currency, result.Input.ExitRevenue),
		fmt.Sprintf("%s %s", md.Bold("EV/Revenue Multiple:"), format.Multiple(result.Input.EVRevenueMultiple)),
		fmt.Sprintf("%s %s", md.Bold("Discount Rate:"), format.Percent(result.Input.DiscountRate)),
		fmt.Sprintf("%s %s", md.Bold("Equity Stake:"), format.Percent(result.Input.EquityStakeEntry)),
	)

	if len(result.Projections) > 0 {
		doc.H3("Projections")
		rows := make([][]string, 0, len(result.Projections))
		for _, row := range result.Projections {
			rows = append(rows, []string{
				row.CashFlowDate,
				row.ForecastYear,
				format.NumericCurrency(row.Revenue),
				format.NumericCurrency(row.EquityValue),
				fmt.Sprintf("%.4f", row.DiscountFactor),
				format.NumericCurrency(row.PresentValue),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Cash Flow Date", "Forecast", "Revenue", "Equity Value", "Discount Factor", "Present Value"},
			Rows:   rows,
		})
	}

	for _, summary := range result.Metrics.Solutions {
		for _, note := range summary.Notes {
			doc.PlainTextf("%s %s", md.Bold("Solver:"), note)
		}
	}

	for _, note := range result.Notes {
		doc.PlainTextf("%s %s", md.Bold("Note:"), note)
	}
}

func writeComparison(doc *md.Markdown, results []valuation.Valuation) {
	doc.H2("Scenario Comparison")
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			result.Scenario,
			format.Percent(result.Metrics.InvestorIRR),
			format.Multiple(result.Metrics.CashOnCash),
			fmt.Sprintf("%s %s", result.Currency, format.NumericCurrency(result.Metrics.InvestmentAmount)),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Scenario", "IRR", "Multiple", "Investment"},
		Rows:   rows,
	})
}

func metricLine(label, currency string, amount float64) string {
	return fmt.Sprintf("%s %s %s", md.Bold(label+":"), currency, format.NumericCurrency(amount))
}
