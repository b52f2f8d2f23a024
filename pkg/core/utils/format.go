package utils

import (
	"math"
	"strconv"
)

// FormatINR renders a rupee amount with thousands separators and no decimals,
// e.g. 79999.4 -> "₹79,999". Used in prompts, recommendations and tables.
func FormatINR(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}

	if neg {
		return "-₹" + s
	}
	return "₹" + s
}
