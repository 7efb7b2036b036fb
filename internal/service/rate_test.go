package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateBpsFor(t *testing.T) {
	tests := []struct {
		name       string
		termMonths int
		expected   int
	}{
		{name: "base rate for zero term", termMonths: 0, expected: 500},
		{name: "one month rounds to eight bps over base", termMonths: 1, expected: 508},
		{name: "six months", termMonths: 6, expected: 550},
		{name: "one year adds a full point", termMonths: 12, expected: 600},
		{name: "two years", termMonths: 24, expected: 700},
		{name: "five years", termMonths: 60, expected: 1000},
		{name: "ten years hits the cap", termMonths: 120, expected: 1500},
		{name: "beyond the cap stays capped", termMonths: 360, expected: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RateBpsFor(tt.termMonths))
		})
	}
}

func TestRateBpsForNeverExceedsCap(t *testing.T) {
	for term := 1; term <= 600; term++ {
		rate := RateBpsFor(term)
		assert.LessOrEqual(t, rate, 1500, fmt.Sprintf("term %d", term))
		assert.GreaterOrEqual(t, rate, 500, fmt.Sprintf("term %d", term))
	}
}
