package finance

import (
	"math"
	"testing"
)

func TestInternalRateOfReturnTwoPoint(t *testing.T) {
	// A single outlay and a single terminal inflow one period later must equal
	// the simple compounded return.
	got, err := InternalRateOfReturn([]float64{-100, 125})
	if err != nil {
		t.Fatalf("InternalRateOfReturn returned error: %v", err)
	}
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("IRR = %f, expected 0.25", got)
	}
}

func TestInternalRateOfReturnTerminalValue(t *testing.T) {
	// Outlay at year zero, terminal value at year seven; IRR must equal the
	// closed-form compounded return over seven years.
	flows := make([]float64, 8)
	flows[0] = -2097152
	flows[7] = 10000000

	got, err := InternalRateOfReturn(flows)
	if err != nil {
		t.Fatalf("InternalRateOfReturn returned error: %v", err)
	}

	expected, err := CompoundedReturn(2097152, 10000000, 7)
	if err != nil {
		t.Fatalf("CompoundedReturn returned error: %v", err)
	}
	if math.Abs(got-expected) > 1e-6 {
		t.Errorf("IRR = %f, expected %f", got, expected)
	}
}

func TestInternalRateOfReturnZeroNPV(t *testing.T) {
	tests := []struct {
		name      string
		cashFlows []float64
	}{
		{
			name:      "Intermediate distributions",
			cashFlows: []float64{-1000, 200, 300, 400, 500},
		},
		{
			name:      "Late exit with small bridge round",
			cashFlows: []float64{-500, -100, 0, 0, 1500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			irr, err := InternalRateOfReturn(tt.cashFlows)
			if err != nil {
				t.Fatalf("InternalRateOfReturn returned error: %v", err)
			}
			if npv := NetPresentValue(irr, tt.cashFlows); math.Abs(npv) > 1e-4 {
				t.Errorf("NPV at the solved IRR = %f, expected ~0", npv)
			}
		})
	}
}

func TestInternalRateOfReturnErrors(t *testing.T) {
	tests := []struct {
		name      string
		cashFlows []float64
	}{
		{name: "Too few flows", cashFlows: []float64{-100}},
		{name: "All outflows", cashFlows: []float64{-100, -50, -25}},
		{name: "All inflows", cashFlows: []float64{100, 50, 25}},
		{name: "All zero", cashFlows: []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InternalRateOfReturn(tt.cashFlows); err == nil {
				t.Errorf("expected error for cash flows %v", tt.cashFlows)
			}
		})
	}
}
