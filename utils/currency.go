package utils

import (
	"fmt"
	"math"
	"strings"
)

// ToCents converts a currency amount to integer cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents is the inverse of ToCents.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCurrency formats an amount as dollars with thousands separators.
// Example: 1234.5 -> "$1,234.50"
func FormatCurrency(amount float64) string {
	cents := ToCents(amount)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	integerPart := fmt.Sprintf("%d", cents/100)
	decimalPart := fmt.Sprintf("%02d", cents%100)

	// thousands separators
	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	return sign + "$" + strings.Join(result, ",") + "." + decimalPart
}
