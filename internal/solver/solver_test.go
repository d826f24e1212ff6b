package solver

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"vc-valuation/internal/config"
	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/datetime"
)

func solverConfiguration() *config.Configuration {
	return &config.Configuration{
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
		Scenarios: []config.Scenario{
			{Name: "Base Case", Active: true},
		},
	}
}

func solverTime() time.Time {
	return datetime.MustParseTime(constants.DateTimeLayout, "2025-01-01")
}

func TestNewRunnerRequiresTarget(t *testing.T) {
	conf := solverConfiguration()
	if _, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime()); err == nil {
		t.Error("expected an error when no target is configured")
	}

	if _, err := NewRunnerWithFixedTime(zap.NewNop(), nil, solverTime()); err == nil {
		t.Error("expected an error for a nil configuration")
	}

	conf.Target.IRR = 0.30
	if _, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime()); err != nil {
		t.Errorf("unexpected error with an IRR target: %v", err)
	}
}

func TestSolveIRRTarget(t *testing.T) {
	conf := solverConfiguration()
	conf.Target.IRR = 0.30

	runner, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summaries, ok := result.Summaries["Base Case"]
	if !ok || len(summaries) != 1 {
		t.Fatalf("expected one summary for Base Case, got %v", result.Summaries)
	}
	summary := summaries[0]

	if !summary.Converged {
		t.Fatalf("search did not converge after %d iterations", summary.Iterations)
	}
	// Closed form: the entry valuation at which a 10% stake of 10M proceeds
	// returns 30% over 7 years is 10M / (0.10 * 1.30^7).
	want := 10000000.0 / (0.10 * math.Pow(1.30, 7))
	if math.Abs(summary.Value-want) > 50.0 {
		t.Errorf("entry valuation = %f, expected about %f", summary.Value, want)
	}
	if math.Abs(summary.Achieved-0.30) > 1e-4 {
		t.Errorf("achieved IRR = %f, expected 0.30", summary.Achieved)
	}
	if summary.Original != 20971520 {
		t.Errorf("original entry valuation = %f, expected 20971520", summary.Original)
	}
	if summary.Field != "entryValuation" {
		t.Errorf("field = %q, expected entryValuation", summary.Field)
	}
	if len(summary.Notes) == 0 {
		t.Error("expected an explanatory note")
	}
}

func TestSolveIRRTargetBelowDiscountRate(t *testing.T) {
	// A target below the discount rate means the investor can pay more than
	// the present value: the search must still converge, above the original.
	conf := solverConfiguration()
	conf.Target.IRR = 0.15

	runner, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summary := result.Summaries["Base Case"][0]
	if !summary.Converged {
		t.Fatal("search did not converge")
	}
	want := 10000000.0 / (0.10 * math.Pow(1.15, 7))
	if math.Abs(summary.Value-want) > 50.0 {
		t.Errorf("entry valuation = %f, expected about %f", summary.Value, want)
	}
	if summary.Value <= summary.Original {
		t.Errorf("relaxed target should allow a higher entry than %f, got %f", summary.Original, summary.Value)
	}
}

func TestSolveMultipleTarget(t *testing.T) {
	conf := solverConfiguration()
	conf.Target.Multiple = 5.0

	runner, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summary := result.Summaries["Base Case"][0]
	if !summary.Converged {
		t.Fatal("closed-form solution should always converge")
	}
	// proceeds / (target * stake) = 10M / (5 * 0.10)
	if summary.Value != 20000000 {
		t.Errorf("entry valuation = %f, expected 20000000", summary.Value)
	}
	if math.Abs(summary.Achieved-5.0) > 1e-9 {
		t.Errorf("achieved multiple = %f, expected 5.0", summary.Achieved)
	}
}

func TestSolveBothTargets(t *testing.T) {
	conf := solverConfiguration()
	conf.Target.IRR = 0.30
	conf.Target.Multiple = 5.0

	runner, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Summaries["Base Case"]) != 2 {
		t.Errorf("expected one summary per target, got %d", len(result.Summaries["Base Case"]))
	}
	if result.Empty() {
		t.Error("result should not be empty")
	}
}

func TestSolveZeroProceeds(t *testing.T) {
	conf := solverConfiguration()
	conf.Valuation.ExitRevenue = 0
	conf.Target.IRR = 0.30

	runner, err := NewRunnerWithFixedTime(zap.NewNop(), conf, solverTime())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summary := result.Summaries["Base Case"][0]
	if summary.Converged {
		t.Error("zero proceeds must not report a converged solution")
	}
	if len(summary.Notes) == 0 {
		t.Error("expected a note explaining why no solution exists")
	}
}

func TestResultApply(t *testing.T) {
	valuations := []valuation.Valuation{
		{Scenario: "A"},
		{Scenario: "B"},
	}
	result := Result{Summaries: map[string][]valuation.SolutionSummary{
		"B": {{TargetName: "B", Field: "entryValuation", Converged: true}},
	}}

	result.Apply(valuations)
	if len(valuations[0].Metrics.Solutions) != 0 {
		t.Error("scenario A should have no solutions attached")
	}
	if len(valuations[1].Metrics.Solutions) != 1 {
		t.Error("scenario B should have one solution attached")
	}

	empty := Result{}
	if !empty.Empty() {
		t.Error("a fresh result should be empty")
	}
}
