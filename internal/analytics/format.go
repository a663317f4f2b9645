package analytics

import (
	"fmt"
	"strings"
)

// Compact abbreviates a magnitude for display: >= 1e6 as "X.XXM",
// >= 1e3 as "X.XXK", else "X.XX", with trailing zeros and a trailing
// decimal point stripped (2.50M -> "2.5M", 3.00K -> "3K", 5.00 -> "5").
func Compact(v float64) string {
	var mantissa float64
	var suffix string
	switch {
	case v >= 1_000_000:
		mantissa, suffix = v/1_000_000, "M"
	case v >= 1_000:
		mantissa, suffix = v/1_000, "K"
	default:
		mantissa = v
	}
	s := fmt.Sprintf("%.2f", mantissa)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + suffix
}
