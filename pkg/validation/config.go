package validation

import (
	"fmt"
	"time"

	"vc-valuation/pkg/constants"
)

// AssumptionsInfo carries the subset of valuation assumptions needed for
// validation without importing the config package.
type AssumptionsInfo struct {
	ValuationDate     string
	ExitYear          int
	Currency          string
	ExitRevenue       float64
	EVRevenueMultiple float64
	FinancialDebt     float64
	CashBalance       float64
	DiscountRate      float64
	EquityStakeEntry  float64
	DilutionEffect    float64
}

// SensitivityInfo carries the discount rate sweep bounds for validation.
type SensitivityInfo struct {
	MinDiscountRate  float64
	MaxDiscountRate  float64
	StepDiscountRate float64
}

// ScenarioInfo carries the subset of scenario fields needed for validation.
type ScenarioInfo struct {
	Name           string
	Active         bool
	RevenueFactor  float64
	MultipleFactor float64
}

// Processor performs configuration validation and produces warnings.
type Processor struct{}

// NewProcessor creates a new validation processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration checks the assumptions, sweep bounds and scenarios and
// returns human-readable warnings. Conditions that make a valuation impossible
// are reported by ValidateAssumptions instead.
func (p *Processor) ValidateConfiguration(assumptions AssumptionsInfo, sensitivity SensitivityInfo, scenarios []ScenarioInfo) []string {
	var warnings []string

	if assumptions.ValuationDate != "" {
		if _, err := time.Parse(constants.DateTimeLayout, assumptions.ValuationDate); err != nil {
			warnings = append(warnings, fmt.Sprintf("valuation date %q is not in %s format and will be replaced by today",
				assumptions.ValuationDate, constants.DateTimeLayout))
		}
	}

	if assumptions.ExitRevenue <= 0 {
		warnings = append(warnings, "exit revenue is not positive; every scenario will value at zero")
	}

	if assumptions.EVRevenueMultiple <= 0 {
		warnings = append(warnings, fmt.Sprintf("EV/Revenue multiple %.1f is not positive", assumptions.EVRevenueMultiple))
	}

	if assumptions.EquityStakeEntry < constants.MinEquityStakeEntry || assumptions.EquityStakeEntry > 1 {
		warnings = append(warnings, fmt.Sprintf("equity stake %.2f%% is outside the supported range of %.0f%%-100%%",
			assumptions.EquityStakeEntry*100, constants.MinEquityStakeEntry*100))
	}

	if assumptions.DiscountRate < constants.MinDiscountRate || assumptions.DiscountRate > constants.MaxDiscountRate {
		warnings = append(warnings, fmt.Sprintf("discount rate %.1f%% is outside the supported range of %.0f%%-%.0f%%",
			assumptions.DiscountRate*100, constants.MinDiscountRate*100, constants.MaxDiscountRate*100))
	}

	if assumptions.DilutionEffect > constants.MaxDilutionEffect {
		warnings = append(warnings, fmt.Sprintf("dilution effect %.1f%% exceeds the supported maximum of %.0f%%",
			assumptions.DilutionEffect*100, constants.MaxDilutionEffect*100))
	}

	if assumptions.ExitYear > constants.MaxExitYear {
		warnings = append(warnings, fmt.Sprintf("exit year %d exceeds the supported maximum of %d",
			assumptions.ExitYear, constants.MaxExitYear))
	}

	warnings = append(warnings, p.validateSensitivity(sensitivity)...)
	warnings = append(warnings, p.validateScenarios(scenarios)...)

	return warnings
}

func (p *Processor) validateSensitivity(sensitivity SensitivityInfo) []string {
	var warnings []string

	if sensitivity.StepDiscountRate <= 0 {
		warnings = append(warnings, "sensitivity step must be positive; using the default sweep")
		return warnings
	}
	if sensitivity.MinDiscountRate >= sensitivity.MaxDiscountRate {
		warnings = append(warnings, fmt.Sprintf("sensitivity bounds [%.1f%%, %.1f%%] are degenerate; using the default sweep",
			sensitivity.MinDiscountRate*100, sensitivity.MaxDiscountRate*100))
	}

	return warnings
}

func (p *Processor) validateScenarios(scenarios []ScenarioInfo) []string {
	var warnings []string

	seen := make(map[string]struct{})
	activeCount := 0
	for _, scenario := range scenarios {
		if scenario.Name == "" {
			warnings = append(warnings, "scenario with empty name will be hard to identify in output")
		}
		if _, dup := seen[scenario.Name]; dup && scenario.Name != "" {
			warnings = append(warnings, fmt.Sprintf("duplicate scenario name %q", scenario.Name))
		}
		seen[scenario.Name] = struct{}{}

		if scenario.Active {
			activeCount++
		}
		if scenario.RevenueFactor < 0 {
			warnings = append(warnings, fmt.Sprintf("scenario %q has a negative revenue factor", scenario.Name))
		}
		if scenario.MultipleFactor < 0 {
			warnings = append(warnings, fmt.Sprintf("scenario %q has a negative multiple factor", scenario.Name))
		}
	}

	if len(scenarios) > 0 && activeCount == 0 {
		warnings = append(warnings, "no scenarios are active; only preset scenarios would produce output")
	}

	return warnings
}

// ValidateAssumptions reports the first condition that makes a valuation
// impossible to compute.
func ValidateAssumptions(assumptions AssumptionsInfo) error {
	if assumptions.ExitRevenue < 0 {
		return fmt.Errorf("exit revenue must not be negative, got %f", assumptions.ExitRevenue)
	}
	if assumptions.EVRevenueMultiple <= 0 {
		return fmt.Errorf("EV/Revenue multiple must be positive, got %f", assumptions.EVRevenueMultiple)
	}
	if assumptions.FinancialDebt < 0 {
		return fmt.Errorf("financial debt must not be negative, got %f", assumptions.FinancialDebt)
	}
	if assumptions.CashBalance < 0 {
		return fmt.Errorf("cash balance must not be negative, got %f", assumptions.CashBalance)
	}
	if assumptions.ExitYear < 1 {
		return fmt.Errorf("exit year must be at least 1, got %d", assumptions.ExitYear)
	}
	if assumptions.DiscountRate <= -1 {
		return fmt.Errorf("discount rate must be greater than -100%%, got %f", assumptions.DiscountRate)
	}
	if assumptions.EquityStakeEntry <= 0 || assumptions.EquityStakeEntry > 1 {
		return fmt.Errorf("equity stake at entry must be in (0, 1], got %f", assumptions.EquityStakeEntry)
	}
	if assumptions.DilutionEffect < 0 || assumptions.DilutionEffect >= 1 {
		return fmt.Errorf("dilution effect must be in [0, 1), got %f", assumptions.DilutionEffect)
	}
	return ValidateCurrency(assumptions.Currency)
}
