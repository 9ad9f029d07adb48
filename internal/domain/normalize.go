package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseIncome converts raw form input into an income amount.
// Surrounding whitespace is ignored. Empty, non-numeric and non-finite
// input yields 0.
func ParseIncome(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatIncome renders an income amount as the shortest decimal string that
// parses back to the same value ("50000", "1234.5").
func FormatIncome(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
