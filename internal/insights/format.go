package insights

import (
	"math"
	"strconv"
	"strings"
)

// formatMoney renders v as rupees with thousands separators and two
// decimals, e.g. "₹ 1,234,567.89".
func formatMoney(v float64) string {
	return "₹ " + groupThousands(v, 2)
}

func groupThousands(v float64, decimals int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if v < 0 && strings.Trim(s, "0.") != "" {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

// pct formats a percentage value with one decimal.
func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// score formats the health score without decimals.
func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
