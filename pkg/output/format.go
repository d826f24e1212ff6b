// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/format"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(results []valuation.Valuation) {
	p := message.NewPrinter(language.English)
	for _, result := range results {
		symbol := format.Symbol(result.Currency)
		fmt.Printf("--- Results for scenario %s ---\n", result.Scenario)
		_, _ = p.Printf("Enterprise Value     | %s%.0f\n", symbol, result.Metrics.EnterpriseValue)
		_, _ = p.Printf("Company Equity Value | %s%.0f\n", symbol, result.Metrics.EquityValue)
		_, _ = p.Printf("Present Value        | %s%.0f\n", symbol, result.Metrics.PresentValue)
		_, _ = p.Printf("Investment Required  | %s%.0f\n", symbol, result.Metrics.InvestmentAmount)
		_, _ = p.Printf("Exit Proceeds        | %s%.0f\n", symbol, result.Metrics.ExitProceeds)
		fmt.Printf("Investor IRR         | %s\n", format.Percent(result.Metrics.InvestorIRR))
		fmt.Printf("Cash Multiple        | %s\n", format.Multiple(result.Metrics.CashOnCash))

		if len(result.Projections) > 0 {
			fmt.Printf("\nYear    | Cash Flow Date | Forecast | Discount Factor | Present Value\n")
			fmt.Printf("____    | ______________ | ________ | _______________ | _____________\n")
			for _, row := range result.Projections {
				_, _ = p.Printf("%d    | %s    | %-8s | %.4f          | %s%.0f\n",
					row.CalendarYear, row.CashFlowDate, row.ForecastYear, row.DiscountFactor, symbol, row.PresentValue)
			}
		}

		for _, summary := range result.Metrics.Solutions {
			for _, note := range summary.Notes {
				fmt.Printf("solver: %s\n", note)
			}
		}

		for _, note := range result.Notes {
			fmt.Printf("note: %s\n", note)
		}

		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []valuation.Valuation) {
	fmt.Print(CsvString(results))
}

// CsvString renders the scenario metrics in comma-separated value format.
func CsvString(results []valuation.Valuation) string {
	var builder strings.Builder
	builder.WriteString(`"scenario","currency","enterprise_value","equity_value","present_value","investment","exit_proceeds","irr","cash_on_cash"`)
	builder.WriteString("\n")
	for _, result := range results {
		builder.WriteString(fmt.Sprintf(`"%s","%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.6f","%.4f"`,
			result.Scenario,
			result.Currency,
			result.Metrics.EnterpriseValue,
			result.Metrics.EquityValue,
			result.Metrics.PresentValue,
			result.Metrics.InvestmentAmount,
			result.Metrics.ExitProceeds,
			result.Metrics.InvestorIRR,
			result.Metrics.CashOnCash,
		))
		builder.WriteString("\n")
	}
	return builder.String()
}
