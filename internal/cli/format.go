// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney formats a dollar amount with comma separators and cents.
// e.g., 1234.5 -> "$1,234.50", -80 -> "-$80.00"
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	if cents == 0 {
		sign = ""
	}
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

// FormatSignedMoney formats an amount with an explicit sign.
// e.g., 250 -> "+$250.00", -250 -> "-$250.00"
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatMonths formats a runway in months to one decimal place.
func FormatMonths(m float64) string {
	if m == 1 {
		return "1.0 month"
	}
	return fmt.Sprintf("%.1f months", m)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a lever percentage (already 0-100).
// Whole values drop the decimal: 10 -> "10%", 12.5 -> "12.5%".
func FormatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatMonthLabel returns the label for a 1-based projection month.
func FormatMonthLabel(month int) string {
	return "Month " + strconv.Itoa(month)
}
