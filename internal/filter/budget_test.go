package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOverThreshold(t *testing.T) {
	tests := []struct {
		name     string
		budget   string
		expected bool
	}{
		{name: "Single amount over", budget: "$600", expected: true},
		{name: "Range upper bound decides", budget: "$250 - $750", expected: true},
		{name: "Currency suffix", budget: "500 - 1000$", expected: true},
		{name: "Whole range under", budget: "$100 - $400", expected: false},
		{name: "Exactly threshold", budget: "$500", expected: false},
		{name: "Exactly threshold decimal", budget: "$500.00", expected: false},
		{name: "Just over", budget: "$500.01", expected: true},
		{name: "Thousands separator", budget: "$1,000", expected: true},
		{name: "No digits", budget: "Negotiable", expected: false},
		{name: "Arabic no digits", budget: "قابل للتفاوض", expected: false},
		{name: "Empty", budget: "", expected: false},
		{name: "Arabic-Indic digits", budget: "٥٠٠ - ١٠٠٠ دولار", expected: true},
		{name: "Prefix text", budget: "USD 700", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsOverThreshold(tt.budget)
			if got != tt.expected {
				t.Errorf("IsOverThreshold(%q) = %v, want %v", tt.budget, got, tt.expected)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, []float64{250, 750}, Numbers("$250.00 - $750.00"))
	assert.Equal(t, []float64{1500.5}, Numbers("1,500.5"))
	assert.Empty(t, Numbers("Negotiable"))
}
