// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"vc-valuation/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateCurrency checks that the currency code is one of the supported codes.
func ValidateCurrency(code string) error {
	switch code {
	case "USD", "EUR", "GBP":
		return nil
	}
	return fmt.Errorf("unsupported currency %q, expected USD, EUR or GBP", code)
}
