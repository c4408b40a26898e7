package calculation

import (
	"testing"

	"github.com/finplan/regime-calculator/internal/domain"
)

func TestComputeHRAExemption(t *testing.T) {
	tests := []struct {
		name        string
		input       domain.HRAInputs
		expected    string
		description string
	}{
		{
			name:        "Scenario C metro",
			input:       domain.HRAInputs{BasicSalary: d("600000"), HRAReceived: d("300000"), RentPaid: d("240000"), MetroCity: true},
			expected:    "180000",
			description: "min(300000, 240000-60000, 300000)",
		},
		{
			name:        "Non-metro salary limit binds",
			input:       domain.HRAInputs{BasicSalary: d("600000"), HRAReceived: d("300000"), RentPaid: d("400000"), MetroCity: false},
			expected:    "240000",
			description: "min(300000, 340000, 240000)",
		},
		{
			name:        "HRA received binds",
			input:       domain.HRAInputs{BasicSalary: d("1000000"), HRAReceived: d("120000"), RentPaid: d("360000"), MetroCity: true},
			expected:    "120000",
			description: "min(120000, 260000, 500000)",
		},
		{
			name:        "Rent below ten percent of basic",
			input:       domain.HRAInputs{BasicSalary: d("600000"), HRAReceived: d("300000"), RentPaid: d("50000"), MetroCity: true},
			expected:    "0",
			description: "rent excess is floored at zero",
		},
		{
			name:        "No rent paid",
			input:       domain.HRAInputs{BasicSalary: d("600000"), HRAReceived: d("300000")},
			expected:    "0",
			description: "no rent means no exemption",
		},
		{
			name:        "All zero",
			input:       domain.HRAInputs{},
			expected:    "0",
			description: "zero inputs",
		},
		{
			name:        "Negative HRA received",
			input:       domain.HRAInputs{BasicSalary: d("600000"), HRAReceived: d("-1000"), RentPaid: d("240000")},
			expected:    "0",
			description: "exemption is never negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, d(tt.expected), ComputeHRAExemption(tt.input), tt.description)
		})
	}
}
