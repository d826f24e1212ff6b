// Package testutil provides common utility functions for testing.
package testutil

import (
	"vc-valuation/internal/valuation"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the valuation if found, nil otherwise.
func FindScenario(results []valuation.Valuation, name string) *valuation.Valuation {
	for i := range results {
		if results[i].Scenario == name {
			return &results[i]
		}
	}
	return nil
}
