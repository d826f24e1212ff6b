// Package format provides display formatting helpers for monetary values,
// rates and multiples.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Symbol returns the display symbol for a supported ISO currency code. Unknown
// codes fall back to the code itself followed by a space.
func Symbol(code string) string {
	switch strings.ToUpper(code) {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return code + " "
	}
}

// Currency returns a currency string with the currency symbol and thousands
// separators (e.g., "-$1,234,567").
func Currency(code string, amount float64) string {
	formatted := groupThousands(math.Abs(amount))
	if amount < 0 {
		return "-" + Symbol(code) + formatted
	}
	return Symbol(code) + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with
// separators (e.g., "-1,234,567.89").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := fmt.Sprintf("%.2f", math.Abs(amount))
	parts := strings.SplitN(formatted, ".", 2)
	return sign + insertSeparators(parts[0]) + "." + parts[1]
}

// Percent renders a decimal rate as a percentage with one decimal place
// (e.g., 0.25 -> "25.0%").
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Multiple renders a ratio as a money multiple with one decimal place
// (e.g., 4.77 -> "4.8x").
func Multiple(ratio float64) string {
	return fmt.Sprintf("%.1fx", ratio)
}

func groupThousands(value float64) string {
	return insertSeparators(fmt.Sprintf("%.0f", value))
}

func insertSeparators(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
