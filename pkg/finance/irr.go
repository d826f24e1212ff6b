package finance

import (
	"fmt"
	"math"

	"vc-valuation/pkg/constants"
)

const (
	maxIterations = 100
	bracketLow    = -0.9999
	bracketHigh   = 10.0
)

// InternalRateOfReturn solves for the rate at which the net present value of
// the annual cash flow series is zero. A two-point series with an initial
// outflow and a terminal inflow is solved in closed form; longer series are
// solved by Newton iteration with a bisection fallback over a bracketed root.
func InternalRateOfReturn(cashFlows []float64) (float64, error) {
	if len(cashFlows) < 2 {
		return 0, fmt.Errorf("need at least two cash flows, got %d", len(cashFlows))
	}

	if len(cashFlows) == 2 && cashFlows[0] < 0 && cashFlows[1] > 0 {
		return CompoundedReturn(-cashFlows[0], cashFlows[1], 1)
	}

	if !hasSignChange(cashFlows) {
		return 0, fmt.Errorf("cash flow series has no sign change, IRR is undefined")
	}

	if rate, ok := newtonIRR(cashFlows); ok {
		return rate, nil
	}
	return bisectIRR(cashFlows)
}

func hasSignChange(cashFlows []float64) bool {
	sawNegative, sawPositive := false, false
	for _, flow := range cashFlows {
		if flow < 0 {
			sawNegative = true
		} else if flow > 0 {
			sawPositive = true
		}
	}
	return sawNegative && sawPositive
}

func newtonIRR(cashFlows []float64) (float64, bool) {
	rate := 0.1
	for i := 0; i < maxIterations; i++ {
		npv := NetPresentValue(rate, cashFlows)
		if math.Abs(npv) < constants.RateTolerance {
			return rate, true
		}

		derivative := 0.0
		for t := 1; t < len(cashFlows); t++ {
			derivative -= float64(t) * cashFlows[t] / math.Pow(1.0+rate, float64(t+1))
		}
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			return 0, false
		}

		next := rate - npv/derivative
		if next <= bracketLow || math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-rate) < constants.RateTolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}

func bisectIRR(cashFlows []float64) (float64, error) {
	lo, hi := bracketLow, bracketHigh
	npvLo := NetPresentValue(lo, cashFlows)
	npvHi := NetPresentValue(hi, cashFlows)
	if npvLo*npvHi > 0 {
		return 0, fmt.Errorf("failed to bracket an IRR root in [%.4f, %.4f]", lo, hi)
	}

	for i := 0; i < maxIterations; i++ {
		mid := (lo + hi) / 2
		npvMid := NetPresentValue(mid, cashFlows)
		if math.Abs(npvMid) < constants.RateTolerance || (hi-lo)/2 < constants.RateTolerance {
			return mid, nil
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}
	return (lo + hi) / 2, nil
}
