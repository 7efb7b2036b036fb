package service

import "math"

// Interest rate formula: min(5.0 + term/12, 15.0) percent. Longer terms
// cost more, capped at 15%. The rate is a deterministic function of the
// term only; amount and borrower history are not inputs.

const (
	baseRateBps = 500  // 5.00%
	maxRateBps  = 1500 // 15.00%
)

// RateBpsFor computes the interest rate for a term, in basis points
// (two-decimal percent precision).
func RateBpsFor(termMonths int) int {
	bps := baseRateBps + int(math.Round(float64(termMonths)/12.0*100))
	if bps > maxRateBps {
		return maxRateBps
	}
	return bps
}
