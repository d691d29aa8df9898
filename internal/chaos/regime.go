package chaos

import (
	"math"
	"strings"
)

// LogisticLyapunov estimates the Lyapunov exponent of the logistic map.
// A positive value indicates chaos.
//
// Algorithm:
// 1. Discard transient iterations so the orbit settles on its attractor
// 2. Average ln|f'(x)| = ln|r(1-2x)| over the next n iterations
func LogisticLyapunov(r, x0 float64, transient, n int) float64 {
	x := x0
	for i := 0; i < transient; i++ {
		x = r * x * (1 - x)
	}

	sumLog := 0.0
	count := 0
	for i := 0; i < n; i++ {
		x = r * x * (1 - x)
		d := math.Abs(r * (1 - 2*x))
		if d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			sumLog += math.Log(d)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

// BifurcationPoint holds the distinct attractor values seen for one r.
type BifurcationPoint struct {
	R      float64
	Values []float64
}

// LogisticBifurcation sweeps r over [rMin, rMax] and records the values the
// orbit visits after a transient. Few values means a periodic window; many
// means chaos.
func LogisticBifurcation(rMin, rMax float64, steps int, x0 float64, transient, record int) []BifurcationPoint {
	if steps <= 1 {
		steps = 2
	}
	results := make([]BifurcationPoint, 0, steps)
	rStep := (rMax - rMin) / float64(steps-1)

	for i := 0; i < steps; i++ {
		r := rMin + float64(i)*rStep
		x := x0
		for t := 0; t < transient; t++ {
			x = r * x * (1 - x)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int]bool)
		for t := 0; t < record; t++ {
			x = r * x * (1 - x)
			// quantize to find distinct values
			key := int(x * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, x)
			}
		}

		results = append(results, BifurcationPoint{R: r, Values: values})
	}
	return results
}

// BifurcationToASCII draws the diagram on a width x height character grid,
// r along the horizontal axis.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
