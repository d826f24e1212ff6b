// Package finance provides the valuation math shared by the engine: discounting,
// net present value, rate-of-return solving and investor multiples.
package finance

import (
	"fmt"
	"math"
)

// DiscountFactor returns 1 / (1+rate)^years, the factor that discounts a
// year-N amount back to present value.
func DiscountFactor(rate float64, years int) float64 {
	return 1.0 / math.Pow(1.0+rate, float64(years))
}

// PresentValue discounts a future value back by the given number of years at
// the given annual rate.
func PresentValue(futureValue, rate float64, years int) float64 {
	return futureValue * DiscountFactor(rate, years)
}

// NetPresentValue computes the NPV of an annual cash flow series where
// cashFlows[0] occurs at time zero.
func NetPresentValue(rate float64, cashFlows []float64) float64 {
	npv := 0.0
	for i, flow := range cashFlows {
		npv += flow * DiscountFactor(rate, i)
	}
	return npv
}

// CompoundedReturn returns the annualized return implied by turning outlay
// into proceeds over the given number of years.
func CompoundedReturn(outlay, proceeds float64, years int) (float64, error) {
	if outlay <= 0 {
		return 0, fmt.Errorf("outlay must be positive, got %f", outlay)
	}
	if proceeds <= 0 {
		return 0, fmt.Errorf("proceeds must be positive, got %f", proceeds)
	}
	if years <= 0 {
		return 0, fmt.Errorf("years must be positive, got %d", years)
	}
	return math.Pow(proceeds/outlay, 1.0/float64(years)) - 1.0, nil
}

// CashOnCash returns the money multiple of proceeds over outlay, or zero when
// the outlay is not positive.
func CashOnCash(outlay, proceeds float64) float64 {
	if outlay <= 0 {
		return 0
	}
	return proceeds / outlay
}
