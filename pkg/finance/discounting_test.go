package finance

import (
	"math"
	"testing"
)

func TestDiscountFactor(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		years    int
		expected float64
	}{
		{
			name:     "Zero years",
			rate:     0.25,
			years:    0,
			expected: 1.0,
		},
		{
			name:     "One year at 25%",
			rate:     0.25,
			years:    1,
			expected: 0.8,
		},
		{
			name:     "Seven years at 25%",
			rate:     0.25,
			years:    7,
			expected: 0.2097152,
		},
		{
			name:     "Zero rate",
			rate:     0.0,
			years:    5,
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountFactor(tt.rate, tt.years)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("DiscountFactor(%f, %d) = %f, expected %f", tt.rate, tt.years, got, tt.expected)
			}
		})
	}
}

func TestPresentValue(t *testing.T) {
	// 100M of year-7 equity value at a 25% required return.
	got := PresentValue(100000000, 0.25, 7)
	expected := 20971520.0
	if math.Abs(got-expected) > 1e-6 {
		t.Errorf("PresentValue = %f, expected %f", got, expected)
	}
}

func TestNetPresentValue(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		cashFlows []float64
		expected  float64
	}{
		{
			name:      "Single flow at time zero is undiscounted",
			rate:      0.25,
			cashFlows: []float64{-1000},
			expected:  -1000,
		},
		{
			name:      "Two flows at zero rate sum",
			rate:      0.0,
			cashFlows: []float64{-1000, 1500},
			expected:  500,
		},
		{
			name:      "Outlay and terminal value",
			rate:      0.10,
			cashFlows: []float64{-100, 0, 121},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetPresentValue(tt.rate, tt.cashFlows)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NetPresentValue(%f, %v) = %f, expected %f", tt.rate, tt.cashFlows, got, tt.expected)
			}
		})
	}
}

func TestCompoundedReturn(t *testing.T) {
	got, err := CompoundedReturn(2097152, 10000000, 7)
	if err != nil {
		t.Fatalf("CompoundedReturn returned error: %v", err)
	}
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("CompoundedReturn = %f, expected 0.25", got)
	}
}

func TestCompoundedReturnErrors(t *testing.T) {
	tests := []struct {
		name     string
		outlay   float64
		proceeds float64
		years    int
	}{
		{name: "Zero outlay", outlay: 0, proceeds: 100, years: 1},
		{name: "Negative proceeds", outlay: 100, proceeds: -1, years: 1},
		{name: "Zero years", outlay: 100, proceeds: 200, years: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompoundedReturn(tt.outlay, tt.proceeds, tt.years); err == nil {
				t.Errorf("expected error for outlay=%f proceeds=%f years=%d", tt.outlay, tt.proceeds, tt.years)
			}
		})
	}
}

func TestCashOnCash(t *testing.T) {
	if got := CashOnCash(2097152, 10000000); math.Abs(got-4.76837158203125) > 1e-9 {
		t.Errorf("CashOnCash = %f, expected 4.76837158203125", got)
	}
	if got := CashOnCash(0, 10000000); got != 0 {
		t.Errorf("CashOnCash with zero outlay = %f, expected 0", got)
	}
}
