package utils

import (
	"fmt"
	"math"
)

// PaisaToRupees converts an amount in paisa to rupees
func PaisaToRupees(paisa int64) float64 {
	return float64(paisa) / 100
}

// RupeesToPaisa converts a rupee amount to paisa, rounding to the nearest paisa
func RupeesToPaisa(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// FormatPrice renders a paisa amount for display with Indian digit grouping,
// e.g. ₹12,34,567.00
func FormatPrice(paisa int64) string {
	sign := ""
	if paisa < 0 {
		sign = "-"
		paisa = -paisa
	}
	rupees := paisa / 100
	return fmt.Sprintf("%s₹%s.%02d", sign, groupLakhs(rupees), paisa%100)
}

// groupLakhs separates the last three digits, then every two: 1,23,45,678
func groupLakhs(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	pre := len(head) % 2
	if pre > 0 {
		out = append(out, head[:pre]...)
	}
	for i := pre; i < len(head); i += 2 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, head[i:i+2]...)
	}
	return string(out) + "," + tail
}
