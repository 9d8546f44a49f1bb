package token

import (
	"math"
	"strconv"
)

// FormatNumber renders a number literal or value. Whole numbers print without
// a fractional part and no exponent form is used at any magnitude.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
