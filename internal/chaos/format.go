package chaos

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v with the shortest digits that round-trip. Values
// with a decimal exponent in [-4, 16) are positional and always carry a
// fractional part ("1.0", "0.0001"); everything else is scientific with a
// signed two-digit minimum exponent ("1e-05", "1e+16").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(sci, "e")
	exp, err := strconv.Atoi(expPart)
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	var b strings.Builder
	if strings.HasPrefix(mant, "-") {
		b.WriteByte('-')
		mant = mant[1:]
	}
	digits := strings.Replace(mant, ".", "", 1)

	point := exp + 1
	switch {
	case point <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -point))
		b.WriteString(digits)
	case point >= len(digits):
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", point-len(digits)))
		b.WriteString(".0")
	default:
		b.WriteString(digits[:point])
		b.WriteByte('.')
		b.WriteString(digits[point:])
	}
	return b.String()
}
