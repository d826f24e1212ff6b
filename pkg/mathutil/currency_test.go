package mathutil

import (
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "Round down", input: 1.234, expected: 1.23},
		{name: "Round up", input: 1.235, expected: 1.24},
		{name: "Negative", input: -1.235, expected: -1.23},
		{name: "Whole number", input: 5.0, expected: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.input); got != tt.expected {
				t.Errorf("Round(%f) = %f, expected %f", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0.005) {
		t.Error("expected 0.005 to be within currency tolerance of zero")
	}
	if IsZero(0.02) {
		t.Error("expected 0.02 to be outside currency tolerance of zero")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(0.2500000, 0.2500001, 1e-6) {
		t.Error("expected rates within 1e-6 to match")
	}
	if WithinTolerance(0.25, 0.26, 1e-6) {
		t.Error("expected rates 0.01 apart to differ at 1e-6")
	}
}
