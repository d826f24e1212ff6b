package adapters

import (
	"testing"

	"vc-valuation/internal/config"
)

func baseConfiguration() config.Configuration {
	return config.Configuration{
		Valuation: config.Assumptions{
			ValuationDate:     "2025-01-01",
			ExitYear:          7,
			Currency:          "USD",
			ExitRevenue:       10000000,
			EVRevenueMultiple: 10.0,
			DiscountRate:      0.25,
		},
		Investor: config.Investor{
			EquityStakeEntry: 0.10,
		},
	}
}

func TestScenarioToInputBase(t *testing.T) {
	conf := baseConfiguration()
	input := ScenarioToInput(conf, config.Scenario{Name: "Base Case", Active: true})

	if input.Scenario != "Base Case" {
		t.Errorf("scenario name = %q, expected Base Case", input.Scenario)
	}
	if input.ExitRevenue != 10000000 {
		t.Errorf("exit revenue = %f, expected base value", input.ExitRevenue)
	}
	if input.EVRevenueMultiple != 10.0 {
		t.Errorf("multiple = %f, expected base value", input.EVRevenueMultiple)
	}
	if input.DiscountRate != 0.25 {
		t.Errorf("discount rate = %f, expected base value", input.DiscountRate)
	}
	if input.EquityStakeEntry != 0.10 {
		t.Errorf("equity stake = %f, expected base value", input.EquityStakeEntry)
	}
}

func TestScenarioToInputFactors(t *testing.T) {
	conf := baseConfiguration()
	input := ScenarioToInput(conf, config.Scenario{
		Name:           "Conservative",
		Active:         true,
		RevenueFactor:  0.8,
		MultipleFactor: 0.7,
	})

	if input.ExitRevenue != 8000000 {
		t.Errorf("exit revenue = %f, expected 8000000", input.ExitRevenue)
	}
	if input.EVRevenueMultiple != 7.0 {
		t.Errorf("multiple = %f, expected 7.0", input.EVRevenueMultiple)
	}
}

func TestScenarioToInputOverridesWin(t *testing.T) {
	conf := baseConfiguration()
	revenue := 20000000.0
	multiple := 12.0
	rate := 0.30
	year := 5
	input := ScenarioToInput(conf, config.Scenario{
		Name:              "Custom",
		Active:            true,
		RevenueFactor:     0.5,
		MultipleFactor:    0.5,
		ExitRevenue:       &revenue,
		EVRevenueMultiple: &multiple,
		DiscountRate:      &rate,
		ExitYear:          &year,
	})

	if input.ExitRevenue != 20000000 {
		t.Errorf("exit revenue = %f, expected the explicit override", input.ExitRevenue)
	}
	if input.EVRevenueMultiple != 12.0 {
		t.Errorf("multiple = %f, expected the explicit override", input.EVRevenueMultiple)
	}
	if input.DiscountRate != 0.30 {
		t.Errorf("discount rate = %f, expected the explicit override", input.DiscountRate)
	}
	if input.ExitYear != 5 {
		t.Errorf("exit year = %d, expected the explicit override", input.ExitYear)
	}
}

func TestScenariosToInputs(t *testing.T) {
	conf := baseConfiguration()
	scenarios := []config.Scenario{
		{Name: "A", Active: true},
		{Name: "B", Active: true, RevenueFactor: 1.2},
	}

	inputs := ScenariosToInputs(conf, scenarios)
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0].Scenario != "A" || inputs[1].Scenario != "B" {
		t.Errorf("unexpected scenario names: %q, %q", inputs[0].Scenario, inputs[1].Scenario)
	}
	if inputs[1].ExitRevenue != 12000000 {
		t.Errorf("scenario B exit revenue = %f, expected 12000000", inputs[1].ExitRevenue)
	}

	if got := ScenariosToInputs(conf, nil); got != nil {
		t.Errorf("expected nil for nil scenarios, got %v", got)
	}
}
