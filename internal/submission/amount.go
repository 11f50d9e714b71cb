package submission

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a user-entered money string such as "$1,234.50".
// ok is false for empty or non-numeric input.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SumAmounts adds the parseable amounts and renders the sum with two decimals.
// Unparseable entries count as zero.
func SumAmounts(values ...string) string {
	var total float64
	for _, v := range values {
		if f, ok := ParseAmount(v); ok {
			total += f
		}
	}
	return fmt.Sprintf("%.2f", total)
}

// SameAmount reports whether two money strings denote the same value to the cent.
func SameAmount(a, b string) bool {
	fa, okA := ParseAmount(a)
	fb, okB := ParseAmount(b)
	if !okA || !okB {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return math.Round(fa*100) == math.Round(fb*100)
}
