package chaos

import "math"

// Sequence is an ordered run of map outputs.
type Sequence []float64

func (s Sequence) Clone() Sequence {
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}

// IsFinite reports whether every value is neither NaN nor infinite.
func (s Sequence) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equal compares bit patterns, so NaN equals NaN and -0 differs from +0.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if math.Float64bits(s[i]) != math.Float64bits(other[i]) {
			return false
		}
	}
	return true
}
