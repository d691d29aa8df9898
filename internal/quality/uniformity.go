package quality

import "math"

// Uniformity is the result of a chi-square test against a flat histogram.
type Uniformity struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Passed    bool    `json:"passed"` // p-value > 0.01
}

const histogramDOF = 255

// ChiSquare tests hist against the uniform distribution over all 256
// values (255 degrees of freedom). An empty histogram fails with p = 0.
func ChiSquare(hist [256]int) Uniformity {
	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return Uniformity{}
	}

	expected := float64(total) / 256
	stat := 0.0
	for _, n := range hist {
		diff := float64(n) - expected
		stat += diff * diff / expected
	}

	p := chiSquarePValue(stat, histogramDOF)
	return Uniformity{Statistic: stat, PValue: p, Passed: p > 0.01}
}

// chiSquarePValue uses the Wilson-Hilferty normal approximation, which is
// accurate for the large dof of a byte histogram.
func chiSquarePValue(stat float64, dof int) float64 {
	if dof <= 0 {
		return 0
	}
	k := float64(dof)
	v := 2 / (9 * k)
	z := (math.Cbrt(stat/k) - (1 - v)) / math.Sqrt(v)
	return math.Max(0, math.Min(1, 1-normalCDF(z)))
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
