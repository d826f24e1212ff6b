package report

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyMetrics holds the numeric fields recovered from a report's Key Metrics
// section.
type KeyMetrics struct {
	EquityValue      float64
	PresentValue     float64
	InvestorIRR      float64
	CashOnCash       float64
	InvestmentAmount float64
}

// ParseReport extracts the key metrics per scenario from a markdown report
// produced by Markdown. Formatting is lossy to one decimal place for rates and
// multiples and to cents for monetary values.
func ParseReport(reportText string) (map[string]KeyMetrics, error) {
	metrics := make(map[string]KeyMetrics)

	var current string
	for _, line := range strings.Split(reportText, "\n") {
		trimmed := strings.TrimSpace(line)

		if name, ok := strings.CutPrefix(trimmed, "## "); ok {
			if name == "Scenario Comparison" {
				current = ""
				continue
			}
			current = name
			metrics[current] = KeyMetrics{}
			continue
		}
		if current == "" {
			continue
		}

		entry := metrics[current]
		var err error
		switch {
		case strings.Contains(trimmed, "**Company Equity Value:**"):
			entry.EquityValue, err = parseAmount(trimmed)
		case strings.Contains(trimmed, "**Present Value:**"):
			entry.PresentValue, err = parseAmount(trimmed)
		case strings.Contains(trimmed, "**Investor IRR:**"):
			entry.InvestorIRR, err = parseRate(trimmed)
		case strings.Contains(trimmed, "**Cash Multiple:**"):
			entry.CashOnCash, err = parseMultiple(trimmed)
		case strings.Contains(trimmed, "**Investment Required:**"):
			entry.InvestmentAmount, err = parseAmount(trimmed)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse report line %q: %w", trimmed, err)
		}
		metrics[current] = entry
	}

	if len(metrics) == 0 {
		return nil, fmt.Errorf("no scenario sections found in report")
	}
	return metrics, nil
}

// parseAmount recovers a float from lines like
// "- **Present Value:** USD 20,971,520.00".
func parseAmount(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty line")
	}
	raw := strings.ReplaceAll(fields[len(fields)-1], ",", "")
	return strconv.ParseFloat(raw, 64)
}

// parseRate recovers a decimal rate from lines like "- **Investor IRR:** 25.0%".
func parseRate(line string) (float64, error) {
	fields := strings.Fields(line)
	raw := strings.TrimSuffix(fields[len(fields)-1], "%")
	percent, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return percent / 100, nil
}

// parseMultiple recovers a ratio from lines like "- **Cash Multiple:** 4.8x".
func parseMultiple(line string) (float64, error) {
	fields := strings.Fields(line)
	raw := strings.TrimSuffix(fields[len(fields)-1], "x")
	return strconv.ParseFloat(raw, 64)
}
