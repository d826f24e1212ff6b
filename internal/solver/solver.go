// Package solver finds the entry terms required to hit investor return
// targets. Given a target IRR or money multiple, it searches for the maximum
// entry valuation at which the target is still achieved at exit.
package solver

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"vc-valuation/internal/config"
	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/finance"
	"vc-valuation/pkg/format"
	"vc-valuation/pkg/mathutil"
)

const (
	maxIterations = 200
	minValuation  = 1.0
)

// Runner executes the entry-terms search for every active scenario.
type Runner struct {
	logger    *zap.Logger
	conf      *config.Configuration
	fixedTime time.Time
}

// Result summarizes solver adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]valuation.SolutionSummary
}

// Empty indicates whether any solver adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches solver summaries to the provided valuation results.
func (r Result) Apply(valuations []valuation.Valuation) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range valuations {
		if summaries, ok := r.Summaries[valuations[i].Scenario]; ok {
			valuations[i].Metrics.Solutions = append(valuations[i].Metrics.Solutions, summaries...)
		}
	}
}

// NewRunner constructs a Runner. It fails when the configuration names no
// return target.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	return NewRunnerWithFixedTime(logger, conf, time.Now())
}

// NewRunnerWithFixedTime constructs a Runner with an injectable base time.
func NewRunnerWithFixedTime(logger *zap.Logger, conf *config.Configuration, fixedTime time.Time) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if conf.Target.IRR <= 0 && conf.Target.Multiple <= 0 {
		return nil, fmt.Errorf("no return target configured: set target.irr or target.multiple")
	}
	if conf.Target.IRR < 0 || conf.Target.Multiple < 0 {
		return nil, fmt.Errorf("return targets must be positive")
	}

	return &Runner{logger: logger, conf: conf, fixedTime: fixedTime}, nil
}

// Run computes the valuations and searches, per scenario, for the maximum
// entry valuation compatible with each configured target.
func (r *Runner) Run() (*Result, error) {
	valuations, err := valuation.ComputeWithFixedTime(r.logger, *r.conf, r.fixedTime)
	if err != nil {
		return nil, fmt.Errorf("failed to compute valuations for solver: %w", err)
	}

	result := &Result{Summaries: make(map[string][]valuation.SolutionSummary)}
	for _, v := range valuations {
		var summaries []valuation.SolutionSummary
		if r.conf.Target.IRR > 0 {
			summaries = append(summaries, r.solveIRRTarget(v))
		}
		if r.conf.Target.Multiple > 0 {
			summaries = append(summaries, r.solveMultipleTarget(v))
		}
		if len(summaries) > 0 {
			result.Summaries[v.Scenario] = summaries
		}
	}

	return result, nil
}

// solveIRRTarget bisects over the entry valuation for the point at which the
// achieved IRR equals the target. The IRR is strictly decreasing in the entry
// price, so the root is unique whenever the proceeds are positive.
func (r *Runner) solveIRRTarget(v valuation.Valuation) valuation.SolutionSummary {
	summary := valuation.SolutionSummary{
		TargetName: v.Scenario,
		Field:      "entryValuation",
		Original:   v.Metrics.PresentValue,
		Target:     r.conf.Target.IRR,
	}

	proceeds := v.Metrics.ExitProceeds
	stake := v.Input.EquityStakeEntry
	years := v.Input.ExitYear
	if proceeds <= 0 || stake <= 0 {
		summary.Notes = append(summary.Notes, "exit proceeds are not positive; no entry valuation achieves the target")
		return summary
	}

	achievedIRR := func(entryValuation float64) float64 {
		irr, err := finance.CompoundedReturn(entryValuation*stake, proceeds, years)
		if err != nil {
			return math.Inf(-1)
		}
		return irr
	}

	lo, hi := minValuation, v.Metrics.EquityValue
	if achievedIRR(hi) > r.conf.Target.IRR {
		// Even an undiscounted entry clears the target.
		hi = v.Metrics.EquityValue * 10
	}

	iterations := 0
	for iterations < maxIterations {
		iterations++
		mid := (lo + hi) / 2
		achieved := achievedIRR(mid)
		if mathutil.WithinTolerance(achieved, r.conf.Target.IRR, constants.RateTolerance) || hi-lo < constants.CurrencyTolerance {
			summary.Value = mid
			summary.Achieved = achieved
			summary.Converged = true
			break
		}
		if achieved > r.conf.Target.IRR {
			lo = mid
		} else {
			hi = mid
		}
	}
	summary.Iterations = iterations

	if !summary.Converged {
		summary.Value = (lo + hi) / 2
		summary.Achieved = achievedIRR(summary.Value)
		summary.Notes = append(summary.Notes, "entry valuation search did not converge")
		return summary
	}

	summary.Notes = append(summary.Notes, fmt.Sprintf("entering at or below %s %s achieves the %s target IRR",
		v.Currency, format.NumericCurrency(summary.Value), format.Percent(r.conf.Target.IRR)))

	r.logger.Debug("solved entry valuation for IRR target",
		zap.String("op", "solver.solveIRRTarget"),
		zap.String("scenario", v.Scenario),
		zap.Float64("entryValuation", summary.Value),
		zap.Int("iterations", iterations),
	)

	return summary
}

// solveMultipleTarget has a closed form: the multiple is proceeds over the
// invested amount, so the entry valuation follows directly. It is still
// reported through the same summary shape as the IRR search.
func (r *Runner) solveMultipleTarget(v valuation.Valuation) valuation.SolutionSummary {
	summary := valuation.SolutionSummary{
		TargetName: v.Scenario,
		Field:      "entryValuation",
		Original:   v.Metrics.PresentValue,
		Target:     r.conf.Target.Multiple,
	}

	proceeds := v.Metrics.ExitProceeds
	stake := v.Input.EquityStakeEntry
	if proceeds <= 0 || stake <= 0 {
		summary.Notes = append(summary.Notes, "exit proceeds are not positive; no entry valuation achieves the target")
		return summary
	}

	summary.Value = proceeds / (r.conf.Target.Multiple * stake)
	summary.Achieved = finance.CashOnCash(summary.Value*stake, proceeds)
	summary.Iterations = 1
	summary.Converged = true
	summary.Notes = append(summary.Notes, fmt.Sprintf("entering at or below %s %s achieves the %s target multiple",
		v.Currency, format.NumericCurrency(summary.Value), format.Multiple(r.conf.Target.Multiple)))

	return summary
}
