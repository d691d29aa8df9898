package quality

import (
	"math"

	"github.com/san-kum/chaoscipher/internal/pixbuf"
)

// Direction selects which neighbour a pixel is paired with.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
	Diagonal
)

var Directions = []Direction{Horizontal, Vertical, Diagonal}

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	}
	return "unknown"
}

func (d Direction) offset() (dy, dx int) {
	switch d {
	case Vertical:
		return 1, 0
	case Diagonal:
		return 1, 1
	default:
		return 0, 1
	}
}

// Correlation returns the Pearson coefficient between every pixel and its
// neighbour in direction d, one value per channel. Planes with no pairs or
// no variance score 0.
func Correlation(buf pixbuf.Buffer, d Direction) []float64 {
	out := make([]float64, buf.Channels)
	dy, dx := d.offset()
	for c := range out {
		var n, sx, sy, sxx, syy, sxy float64
		for y := 0; y+dy < buf.Height; y++ {
			for x := 0; x+dx < buf.Width; x++ {
				a := float64(buf.At(y, x, c))
				b := float64(buf.At(y+dy, x+dx, c))
				n++
				sx += a
				sy += b
				sxx += a * a
				syy += b * b
				sxy += a * b
			}
		}
		if n == 0 {
			continue
		}
		cov := sxy/n - (sx/n)*(sy/n)
		vx := sxx/n - (sx/n)*(sx/n)
		vy := syy/n - (sy/n)*(sy/n)
		if vx <= 0 || vy <= 0 {
			continue
		}
		out[c] = cov / math.Sqrt(vx*vy)
	}
	return out
}
