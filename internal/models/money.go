package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Monetary amounts are carried as integer cents end to end so balance
// comparisons stay exact. These helpers convert at the edges only.

// FormatCents renders cents as a decimal string with two places, e.g. 123450 -> "1234.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents parses a non-negative decimal amount like "1234.50" into cents.
// At most two fractional digits are accepted.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	var fracCents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q: expected at most two decimal places", s)
		}
		// Pad "5" to "50" so tenths parse as cents
		if len(frac) == 1 {
			frac += "0"
		}
		fracCents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}

	return units*100 + fracCents, nil
}

// FormatRateBps renders basis points as a percentage string, e.g. 600 -> "6.00".
func FormatRateBps(bps int) string {
	return fmt.Sprintf("%d.%02d", bps/100, bps%100)
}
