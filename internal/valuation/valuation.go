// Package valuation defines the data structures related to a computed
// valuation and includes functions for computing them.
package valuation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"vc-valuation/internal/config"
	"vc-valuation/pkg/adapters"
	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/datetime"
	"vc-valuation/pkg/finance"
	"vc-valuation/pkg/format"
	"vc-valuation/pkg/mathutil"
)

// Valuation holds all information related to a specific scenario's valuation.
type Valuation struct {
	Scenario      string
	Currency      string
	Input         adapters.ValuationInput
	Metrics       Metrics
	Projections   []ProjectionRow
	InvestorFlows []InvestorFlowRow
	Sensitivity   []SensitivityPoint
	Notes         []string
}

// Metrics holds the headline results for one scenario.
type Metrics struct {
	EnterpriseValue  float64
	EquityValue      float64
	PresentValue     float64
	EquityStakeExit  float64
	InvestmentAmount float64
	ExitProceeds     float64
	InvestorIRR      float64
	CashOnCash       float64
	Solutions        []SolutionSummary
}

// SolutionSummary describes one adjustment produced by the entry-terms solver.
type SolutionSummary struct {
	TargetName string
	Field      string
	Original   float64
	Value      float64
	Target     float64
	Achieved   float64
	Iterations int
	Converged  bool
	Notes      []string
}

// ProjectionRow is one calendar year of the projection table.
type ProjectionRow struct {
	CalendarYear    int
	CashFlowDate    string
	ForecastYear    string
	Revenue         float64
	EnterpriseValue float64
	EquityValue     float64
	DiscountFactor  float64
	PresentValue    float64
}

// InvestorFlowRow is one calendar year of the investor cash flow table.
type InvestorFlowRow struct {
	CalendarYear int
	Investment   float64
	ExitProceeds float64
	NetCashFlow  float64
	EquityStake  string
}

// SensitivityPoint is the investor IRR recomputed at one discount rate of the
// sensitivity sweep.
type SensitivityPoint struct {
	DiscountRate float64
	IRR          float64
}

// Compute processes the valuations for all scenarios.
func Compute(logger *zap.Logger, conf config.Configuration) ([]Valuation, error) {
	return ComputeWithFixedTime(logger, conf, time.Now())
}

// ComputeWithFixedTime processes the valuations for all scenarios relative to
// an injectable base time, which anchors calendar years when the configuration
// does not name a valuation date.
func ComputeWithFixedTime(logger *zap.Logger, conf config.Configuration, fixedTime time.Time) ([]Valuation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseDate, err := datetime.ParseValuationDate(conf.Valuation.ValuationDate, fixedTime)
	if err != nil {
		logger.Warn("unparseable valuation date, falling back to current date",
			zap.String("op", "valuation.Compute"),
			zap.String("valuationDate", conf.Valuation.ValuationDate),
			zap.Error(err),
		)
		baseDate = fixedTime
	}

	var active []config.Scenario
	for _, scenario := range conf.EffectiveScenarios() {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "valuation.Compute"),
			)
			continue
		}
		active = append(active, scenario)
	}

	var results []Valuation
	for _, input := range adapters.ScenariosToInputs(conf, active) {
		result, err := ComputeInput(logger, input, conf.Sensitivity, baseDate.Year())
		if err != nil {
			return results, fmt.Errorf("failed to compute scenario %s: %w", input.Scenario, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ComputeInput computes the full valuation for one resolved input.
func ComputeInput(logger *zap.Logger, input adapters.ValuationInput, sweep config.Sensitivity, baseYear int) (Valuation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if input.ExitYear < 1 {
		return Valuation{}, fmt.Errorf("exit year must be at least 1, got %d", input.ExitYear)
	}
	if input.EquityStakeEntry <= 0 || input.EquityStakeEntry > 1 {
		return Valuation{}, fmt.Errorf("equity stake at entry must be in (0, 1], got %f", input.EquityStakeEntry)
	}

	result := Valuation{
		Scenario: input.Scenario,
		Currency: input.Currency,
		Input:    input,
	}

	metrics, notes := computeMetrics(logger, input)
	result.Metrics = metrics
	result.Notes = notes

	result.Projections = buildProjections(input, metrics, baseYear)
	result.InvestorFlows = buildInvestorFlows(input, metrics, baseYear)
	result.Sensitivity = buildSensitivity(input, metrics, sweep)

	logger.Debug("scenario valuation computed",
		zap.String("op", "valuation.ComputeInput"),
		zap.String("scenario", input.Scenario),
		zap.Float64("equityValue", metrics.EquityValue),
		zap.Float64("investorIRR", metrics.InvestorIRR),
	)

	return result, nil
}

func computeMetrics(logger *zap.Logger, input adapters.ValuationInput) (Metrics, []string) {
	var notes []string

	enterpriseValue := input.ExitRevenue * input.EVRevenueMultiple
	equityValue := enterpriseValue - input.FinancialDebt + input.CashBalance
	presentValue := finance.PresentValue(equityValue, input.DiscountRate, input.ExitYear)

	equityStakeExit := input.EquityStakeEntry * (1 - input.DilutionEffect)
	investmentAmount := presentValue * input.EquityStakeEntry
	exitProceeds := equityValue * equityStakeExit

	if input.DilutionEffect > 0 {
		notes = append(notes, fmt.Sprintf("dilution reduces the exit stake from %s to %s",
			format.Percent(input.EquityStakeEntry), format.Percent(equityStakeExit)))
	}

	// Monetary amounts are carried at cent precision from here on.
	presentValue = mathutil.Round(presentValue)
	investmentAmount = mathutil.Round(investmentAmount)
	exitProceeds = mathutil.Round(exitProceeds)

	irr := investorIRR(logger, investmentAmount, exitProceeds, input.ExitYear, &notes)

	return Metrics{
		EnterpriseValue:  mathutil.Round(enterpriseValue),
		EquityValue:      mathutil.Round(equityValue),
		PresentValue:     presentValue,
		EquityStakeExit:  equityStakeExit,
		InvestmentAmount: investmentAmount,
		ExitProceeds:     exitProceeds,
		InvestorIRR:      irr,
		CashOnCash:       finance.CashOnCash(investmentAmount, exitProceeds),
	}, notes
}

// investorIRR solves the IRR of the investor's cash flow series: the
// investment outflow at year zero and the exit proceeds at the exit year.
func investorIRR(logger *zap.Logger, investment, proceeds float64, exitYear int, notes *[]string) float64 {
	flows := make([]float64, exitYear+1)
	flows[0] = -investment
	flows[exitYear] = proceeds

	irr, err := finance.InternalRateOfReturn(flows)
	if err != nil {
		logger.Warn("IRR could not be solved, using fallback rate",
			zap.String("op", "valuation.investorIRR"),
			zap.Float64("investment", investment),
			zap.Float64("proceeds", proceeds),
			zap.Error(err),
		)
		*notes = append(*notes, fmt.Sprintf("IRR could not be solved for this cash flow series; reporting the %s fallback",
			format.Percent(constants.FallbackIRR)))
		return constants.FallbackIRR
	}
	return irr
}

func buildProjections(input adapters.ValuationInput, metrics Metrics, baseYear int) []ProjectionRow {
	rows := make([]ProjectionRow, 0, input.ExitYear+constants.ProjectionTailYears+1)
	for n := 0; n <= input.ExitYear+constants.ProjectionTailYears; n++ {
		row := ProjectionRow{
			CalendarYear:   baseYear + n,
			CashFlowDate:   datetime.YearEnd(baseYear + n),
			ForecastYear:   fmt.Sprintf("Year %d", n),
			DiscountFactor: finance.DiscountFactor(input.DiscountRate, n),
		}
		if n == input.ExitYear {
			row.Revenue = input.ExitRevenue
			row.EnterpriseValue = metrics.EnterpriseValue
			row.EquityValue = metrics.EquityValue
			row.PresentValue = metrics.PresentValue
		}
		rows = append(rows, row)
	}
	return rows
}

func buildInvestorFlows(input adapters.ValuationInput, metrics Metrics, baseYear int) []InvestorFlowRow {
	rows := make([]InvestorFlowRow, 0, input.ExitYear+constants.ProjectionTailYears+1)
	for n := 0; n <= input.ExitYear+constants.ProjectionTailYears; n++ {
		row := InvestorFlowRow{CalendarYear: baseYear + n}
		if n == 0 {
			row.Investment = -metrics.InvestmentAmount
		}
		if n == input.ExitYear {
			row.ExitProceeds = metrics.ExitProceeds
		}
		row.NetCashFlow = row.Investment + row.ExitProceeds
		if n <= input.ExitYear {
			row.EquityStake = format.Percent(input.EquityStakeEntry)
		}
		rows = append(rows, row)
	}
	return rows
}

// buildSensitivity recomputes the investor IRR across the discount rate sweep.
// The exit proceeds are unaffected by the discount rate; only the entry price
// moves, which is exactly what makes the sweep informative.
func buildSensitivity(input adapters.ValuationInput, metrics Metrics, sweep config.Sensitivity) []SensitivityPoint {
	min, max, step := sweep.MinDiscountRate, sweep.MaxDiscountRate, sweep.StepDiscountRate
	if step <= 0 || min >= max {
		min, max, step = constants.DefaultSensitivityMin, constants.DefaultSensitivityMax, constants.DefaultSensitivityStep
	}

	// Index-based so the endpoint stays included regardless of how the step
	// accumulates in floating point.
	steps := int((max-min)/step + constants.RateTolerance)
	points := make([]SensitivityPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		rate := min + float64(i)*step
		presentValue := finance.PresentValue(metrics.EquityValue, rate, input.ExitYear)
		investment := presentValue * input.EquityStakeEntry

		irr, err := finance.CompoundedReturn(investment, metrics.ExitProceeds, input.ExitYear)
		if err != nil {
			irr = constants.FallbackIRR
		}
		points = append(points, SensitivityPoint{DiscountRate: rate, IRR: irr})
	}
	return points
}
