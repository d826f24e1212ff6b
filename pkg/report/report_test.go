package report

import (
	"math"
	"strings"
	"testing"

	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/adapters"
)

func sampleResults() []valuation.Valuation {
	return []valuation.Valuation{
		{
			Scenario: "Base Case",
			Currency: "USD",
			Input: adapters.ValuationInput{
				Scenario:          "Base Case",
				ExitYear:          7,
				Currency:          "USD",
				ExitRevenue:       10000000,
				EVRevenueMultiple: 10.0,
				DiscountRate:      0.25,
				EquityStakeEntry:  0.10,
			},
			Metrics: valuation.Metrics{
				EnterpriseValue:  100000000,
				EquityValue:      100000000,
				PresentValue:     20971520,
				InvestmentAmount: 2097152,
				ExitProceeds:     10000000,
				InvestorIRR:      0.25,
				CashOnCash:       4.7684,
			},
			Projections: []valuation.ProjectionRow{
				{CalendarYear: 2025, CashFlowDate: "31-Dec-2025", ForecastYear: "Year 0", DiscountFactor: 1.0},
				{CalendarYear: 2032, CashFlowDate: "31-Dec-2032", ForecastYear: "Year 7", Revenue: 10000000,
					EquityValue: 100000000, DiscountFactor: 0.2097, PresentValue: 20971520},
			},
			Notes: []string{"dilution reduces the exit stake from 10.0% to 7.0%"},
		},
		{
			Scenario: "Optimistic",
			Currency: "USD",
			Input: adapters.ValuationInput{
				Scenario: "Optimistic",
				ExitYear: 7,
				Currency: "USD",
			},
			Metrics: valuation.Metrics{
				EquityValue:      156000000,
				PresentValue:     32715387,
				InvestmentAmount: 3271538,
				InvestorIRR:      0.25,
				CashOnCash:       4.77,
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	text, err := Markdown(sampleResults(), Metadata{ValuationDate: "2025-01-01", GeneratedAt: "2025-01-02 10:00"})
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}

	wantFragments := []string{
		"# VC Valuation Report",
		"**Valuation Date:** 2025-01-01",
		"## Base Case",
		"### Key Metrics",
		"**Company Equity Value:** USD 100,000,000.00",
		"**Present Value:** USD 20,971,520.00",
		"**Investor IRR:** 25.0%",
		"### Assumptions",
		"**Discount Rate:** 25.0%",
		"### Projections",
		"31-Dec-2032",
		"## Optimistic",
		"## Scenario Comparison",
		"**Note:** dilution reduces the exit stake",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(text, fragment) {
			t.Errorf("report is missing %q", fragment)
		}
	}
}

func TestMarkdownSingleScenarioSkipsComparison(t *testing.T) {
	text, err := Markdown(sampleResults()[:1], Metadata{})
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if strings.Contains(text, "Scenario Comparison") {
		t.Error("a single-scenario report should not carry a comparison table")
	}
}

func TestParseReportRoundTrip(t *testing.T) {
	results := sampleResults()
	text, err := Markdown(results, Metadata{ValuationDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}

	parsed, err := ParseReport(text)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(parsed))
	}

	base, ok := parsed["Base Case"]
	if !ok {
		t.Fatal("Base Case section not found")
	}
	if base.EquityValue != 100000000 {
		t.Errorf("equity value = %f, expected 100000000", base.EquityValue)
	}
	if base.PresentValue != 20971520 {
		t.Errorf("present value = %f, expected 20971520", base.PresentValue)
	}
	if base.InvestmentAmount != 2097152 {
		t.Errorf("investment = %f, expected 2097152", base.InvestmentAmount)
	}
	// Rates and multiples round-trip at one decimal place.
	if math.Abs(base.InvestorIRR-0.25) > 1e-9 {
		t.Errorf("IRR = %f, expected 0.25", base.InvestorIRR)
	}
	if math.Abs(base.CashOnCash-4.8) > 1e-9 {
		t.Errorf("cash multiple = %f, expected the rounded 4.8", base.CashOnCash)
	}

	if _, ok := parsed["Scenario Comparison"]; ok {
		t.Error("the comparison table must not be parsed as a scenario")
	}
}

func TestParseReportEmpty(t *testing.T) {
	if _, err := ParseReport("no headings here"); err == nil {
		t.Error("expected an error for a report with no scenarios")
	}
}
