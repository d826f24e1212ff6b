// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"

	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/validation"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for vc-valuation.
type Configuration struct {
	Valuation   Assumptions
	Investor    Investor
	Sensitivity Sensitivity
	Target      Target
	Scenarios   []Scenario
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Assumptions holds the base valuation inputs shared by all scenarios.
type Assumptions struct {
	ValuationDate     string  `yaml:"valuationDate,omitempty"`
	ExitYear          int     `yaml:"exitYear,omitempty"`
	Currency          string  `yaml:"currency,omitempty"`
	ExitRevenue       float64 `yaml:"exitRevenue,omitempty"`
	EVRevenueMultiple float64 `yaml:"evRevenueMultiple,omitempty"`
	FinancialDebt     float64 `yaml:"financialDebt,omitempty"`
	CashBalance       float64 `yaml:"cashBalance,omitempty"`
	DiscountRate      float64 `yaml:"discountRate,omitempty"`
}

// Investor holds the investor-side assumptions.
type Investor struct {
	EquityStakeEntry float64 `yaml:"equityStakeEntry,omitempty"`
	DilutionEffect   float64 `yaml:"dilutionEffect,omitempty"`
}

// Sensitivity holds the bounds of the discount rate sweep used for the IRR
// sensitivity analysis.
type Sensitivity struct {
	MinDiscountRate  float64 `yaml:"minDiscountRate,omitempty"`
	MaxDiscountRate  float64 `yaml:"maxDiscountRate,omitempty"`
	StepDiscountRate float64 `yaml:"stepDiscountRate,omitempty"`
}

// Target holds optional return targets used by the entry-terms solver.
type Target struct {
	IRR      float64 `yaml:"irr,omitempty"`
	Multiple float64 `yaml:"multiple,omitempty"`
}

// Scenario is a named parameterized variant of the base assumptions. Factors
// scale the base values; explicit overrides take precedence over factors.
type Scenario struct {
	Name              string   `yaml:"name"`
	Active            bool     `yaml:"active"`
	RevenueFactor     float64  `yaml:"revenueFactor,omitempty"`
	MultipleFactor    float64  `yaml:"multipleFactor,omitempty"`
	ExitRevenue       *float64 `yaml:"exitRevenue,omitempty"`
	EVRevenueMultiple *float64 `yaml:"evRevenueMultiple,omitempty"`
	DiscountRate      *float64 `yaml:"discountRate,omitempty"`
	ExitYear          *int     `yaml:"exitYear,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from the
// given reader. Used by the HTTP server for uploaded and posted configs.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset fields with the defaults of the interactive tool.
// Exit revenue, debt and cash are deliberately left alone: zero is a valid
// input for all three.
func (c *Configuration) ApplyDefaults() {
	if c.Valuation.ExitYear == 0 {
		c.Valuation.ExitYear = constants.DefaultExitYear
	}
	if c.Valuation.Currency == "" {
		c.Valuation.Currency = "USD"
	}
	if c.Valuation.EVRevenueMultiple == 0 {
		c.Valuation.EVRevenueMultiple = constants.DefaultEVRevenueMultiple
	}
	if c.Valuation.DiscountRate == 0 {
		c.Valuation.DiscountRate = constants.DefaultDiscountRate
	}
	if c.Investor.EquityStakeEntry == 0 {
		c.Investor.EquityStakeEntry = constants.DefaultEquityStakeEntry
	}
	if c.Sensitivity.MinDiscountRate == 0 {
		c.Sensitivity.MinDiscountRate = constants.DefaultSensitivityMin
	}
	if c.Sensitivity.MaxDiscountRate == 0 {
		c.Sensitivity.MaxDiscountRate = constants.DefaultSensitivityMax
	}
	if c.Sensitivity.StepDiscountRate == 0 {
		c.Sensitivity.StepDiscountRate = constants.DefaultSensitivityStep
	}
}

// EffectiveScenarios returns the configured scenarios, or the three preset
// scenarios from the interactive tool when none are configured.
func (c *Configuration) EffectiveScenarios() []Scenario {
	if len(c.Scenarios) > 0 {
		return c.Scenarios
	}
	return []Scenario{
		{
			Name:           "Conservative",
			Active:         true,
			RevenueFactor:  constants.ConservativeRevenueFactor,
			MultipleFactor: constants.ConservativeMultipleFactor,
		},
		{
			Name:   "Base Case",
			Active: true,
		},
		{
			Name:           "Optimistic",
			Active:         true,
			RevenueFactor:  constants.OptimisticRevenueFactor,
			MultipleFactor: constants.OptimisticMultipleFactor,
		},
	}
}

// AssumptionsInfo converts the base assumptions into the validation package's
// representation.
func (c *Configuration) AssumptionsInfo() validation.AssumptionsInfo {
	return validation.AssumptionsInfo{
		ValuationDate:     c.Valuation.ValuationDate,
		ExitYear:          c.Valuation.ExitYear,
		Currency:          c.Valuation.Currency,
		ExitRevenue:       c.Valuation.ExitRevenue,
		EVRevenueMultiple: c.Valuation.EVRevenueMultiple,
		FinancialDebt:     c.Valuation.FinancialDebt,
		CashBalance:       c.Valuation.CashBalance,
		DiscountRate:      c.Valuation.DiscountRate,
		EquityStakeEntry:  c.Investor.EquityStakeEntry,
		DilutionEffect:    c.Investor.DilutionEffect,
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var scenarios []validation.ScenarioInfo
	for _, scenario := range c.Scenarios {
		scenarios = append(scenarios, validation.ScenarioInfo{
			Name:           scenario.Name,
			Active:         scenario.Active,
			RevenueFactor:  scenario.RevenueFactor,
			MultipleFactor: scenario.MultipleFactor,
		})
	}

	sensitivity := validation.SensitivityInfo{
		MinDiscountRate:  c.Sensitivity.MinDiscountRate,
		MaxDiscountRate:  c.Sensitivity.MaxDiscountRate,
		StepDiscountRate: c.Sensitivity.StepDiscountRate,
	}

	processor := validation.NewProcessor()
	return processor.ValidateConfiguration(c.AssumptionsInfo(), sensitivity, scenarios)
}

// Validate reports the first condition that makes the configuration impossible
// to compute a valuation from.
func (c *Configuration) Validate() error {
	return validation.ValidateAssumptions(c.AssumptionsInfo())
}
