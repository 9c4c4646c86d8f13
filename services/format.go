package services

import (
	"fmt"
	"strings"
)

// FormatINR formats a float64 amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
// The result always includes exactly 2 decimal places.
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	formatted := applyIndianGrouping(intPart)

	result := "₹" + formatted + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// The last 3 digits stay together.
	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// FormatMoney renders an amount with its currency code. INR amounts use the
// Indian grouping; other currencies get plain 2-decimal formatting.
func FormatMoney(amount float64, currency string) string {
	if currency == "INR" || currency == "" {
		return FormatINR(amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// FormatWeight renders a weight in kilograms for display ("20.04 kg").
func FormatWeight(kg float64) string {
	return fmt.Sprintf("%.2f kg", kg)
}

// FormatCBM renders a volume in cubic metres for display with 3 decimals.
func FormatCBM(cbm float64) string {
	return fmt.Sprintf("%.3f CBM", cbm)
}
