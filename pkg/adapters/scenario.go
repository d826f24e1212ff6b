// Package adapters provides adapter implementations between different package
// interfaces. It resolves named scenarios against the base assumptions into
// self-contained valuation inputs.
package adapters

import (
	"vc-valuation/internal/config"
)

// ValuationInput is a fully resolved, scenario-specific set of valuation
// parameters. It carries everything the engine needs for one computation.
type ValuationInput struct {
	Scenario          string
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

// ScenarioToInput resolves a scenario against the configuration's base
// assumptions. Explicit overrides win over factors; a zero factor means the
// base value is kept unchanged.
func ScenarioToInput(conf config.Configuration, scenario config.Scenario) ValuationInput {
	input := ValuationInput{
		Scenario:          scenario.Name,
		ValuationDate:     conf.Valuation.ValuationDate,
		ExitYear:          conf.Valuation.ExitYear,
		Currency:          conf.Valuation.Currency,
		ExitRevenue:       conf.Valuation.ExitRevenue,
		EVRevenueMultiple: conf.Valuation.EVRevenueMultiple,
		FinancialDebt:     conf.Valuation.FinancialDebt,
		CashBalance:       conf.Valuation.CashBalance,
		DiscountRate:      conf.Valuation.DiscountRate,
		EquityStakeEntry:  conf.Investor.EquityStakeEntry,
		DilutionEffect:    conf.Investor.DilutionEffect,
	}

	if scenario.RevenueFactor != 0 {
		input.ExitRevenue *= scenario.RevenueFactor
	}
	if scenario.MultipleFactor != 0 {
		input.EVRevenueMultiple *= scenario.MultipleFactor
	}

	if scenario.ExitRevenue != nil {
		input.ExitRevenue = *scenario.ExitRevenue
	}
	if scenario.EVRevenueMultiple != nil {
		input.EVRevenueMultiple = *scenario.EVRevenueMultiple
	}
	if scenario.DiscountRate != nil {
		input.DiscountRate = *scenario.DiscountRate
	}
	if scenario.ExitYear != nil {
		input.ExitYear = *scenario.ExitYear
	}

	return input
}

// ScenariosToInputs resolves every scenario in the list.
func ScenariosToInputs(conf config.Configuration, scenarios []config.Scenario) []ValuationInput {
	if scenarios == nil {
		return nil
	}

	inputs := make([]ValuationInput, 0, len(scenarios))
	for _, scenario := range scenarios {
		inputs = append(inputs, ScenarioToInput(conf, scenario))
	}
	return inputs
}
