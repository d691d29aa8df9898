package chaos

import "strings"

const (
	DefaultHenonA = 1.4
	DefaultHenonB = 0.3
)

// Henon3D is the coupled recurrence
//
//	x_i = a - y_{i-1}^2 - b*z_{i-1}
//	y_i = x_{i-1}
//	z_i = y_{i-1}
type Henon3D struct{ A, B float64 }

func NewHenon3D() *Henon3D { return &Henon3D{A: DefaultHenonA, B: DefaultHenonB} }

// Orbit returns three parallel sequences of the given length. Index 0 holds
// the seed (x0, y0, z0). A diverging orbit runs to -Inf and then NaN; that is
// not an error.
func (h *Henon3D) Orbit(x0, y0, z0 float64, length int) (xs, ys, zs Sequence) {
	if length <= 0 {
		return Sequence{}, Sequence{}, Sequence{}
	}
	xs = make(Sequence, length)
	ys = make(Sequence, length)
	zs = make(Sequence, length)
	xs[0], ys[0], zs[0] = x0, y0, z0
	for i := 1; i < length; i++ {
		// explicit conversions keep both products rounded (no FMA)
		xs[i] = h.A - float64(ys[i-1]*ys[i-1]) - float64(h.B*zs[i-1])
		ys[i] = xs[i-1]
		zs[i] = ys[i-1]
	}
	return xs, ys, zs
}

func (h *Henon3D) GetParams() map[string]float64 {
	return map[string]float64{"a": h.A, "b": h.B}
}

func (h *Henon3D) SetParam(n string, v float64) {
	switch n {
	case "a":
		h.A = v
	case "b":
		h.B = v
	}
}

// Combine sums the three components elementwise as (x+y)+z. The result has
// the length of the shortest input.
func Combine(xs, ys, zs Sequence) Sequence {
	n := min(len(xs), len(ys), len(zs))
	out := make(Sequence, n)
	for i := 0; i < n; i++ {
		out[i] = xs[i] + ys[i] + zs[i]
	}
	return out
}

// SeedString concatenates the decimal form of every value with no separator.
// It is the keystream seed derived from a Hénon orbit.
func SeedString(seq Sequence) string {
	var b strings.Builder
	b.Grow(len(seq) * 19)
	for _, v := range seq {
		b.WriteString(FormatFloat(v))
	}
	return b.String()
}

// HenonKeystream derives length keystream bytes from a Hénon orbit of the
// same length.
func HenonKeystream(h *Henon3D, x0, y0, z0 float64, length int) []byte {
	xs, ys, zs := h.Orbit(x0, y0, z0, length)
	return Keystream(SeedString(Combine(xs, ys, zs)), length)
}
