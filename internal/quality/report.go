package quality

import (
	"fmt"

	"github.com/san-kum/chaoscipher/internal/pixbuf"
)

// Report gathers every metric for one plaintext/ciphertext pair.
type Report struct {
	NPCR         float64              `json:"npcr"`
	UACI         float64              `json:"uaci"`
	Entropy      float64              `json:"entropy"`
	PlainEntropy float64              `json:"plain_entropy"`
	Uniformity   Uniformity           `json:"uniformity"`
	PlainCorr    map[string][]float64 `json:"plain_correlation"`
	CipherCorr   map[string][]float64 `json:"cipher_correlation"`
	PlainHist    [256]int             `json:"-"`
	CipherHist   [256]int             `json:"-"`
}

// Evaluate compares a plaintext image with an equally shaped ciphertext
// image (a preview of the encrypted samples).
func Evaluate(plain, cipher pixbuf.Buffer) (Report, error) {
	if !plain.SameShape(cipher) || len(plain.Pix) != len(cipher.Pix) {
		return Report{}, fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch,
			plain.Height, plain.Width, plain.Channels, cipher.Height, cipher.Width, cipher.Channels)
	}

	npcr, err := NPCR(plain.Pix, cipher.Pix)
	if err != nil {
		return Report{}, err
	}
	uaci, err := UACI(plain.Pix, cipher.Pix)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		NPCR:         npcr,
		UACI:         uaci,
		Entropy:      Entropy(cipher.Pix),
		PlainEntropy: Entropy(plain.Pix),
		PlainHist:    Histogram(plain.Pix),
		CipherHist:   Histogram(cipher.Pix),
		PlainCorr:    make(map[string][]float64, len(Directions)),
		CipherCorr:   make(map[string][]float64, len(Directions)),
	}
	r.Uniformity = ChiSquare(r.CipherHist)
	for _, d := range Directions {
		r.PlainCorr[d.String()] = Correlation(plain, d)
		r.CipherCorr[d.String()] = Correlation(cipher, d)
	}
	return r, nil
}

// Metrics flattens the scalar results, keyed by metric name. Correlations
// are averaged over channels.
func (r Report) Metrics() map[string]float64 {
	m := map[string]float64{
		"npcr":          r.NPCR,
		"uaci":          r.UACI,
		"entropy":       r.Entropy,
		"plain_entropy": r.PlainEntropy,
		"chi_square":    r.Uniformity.Statistic,
		"chi_square_p":  r.Uniformity.PValue,
	}
	for name, vals := range r.CipherCorr {
		m["corr_"+name] = mean(vals)
	}
	for name, vals := range r.PlainCorr {
		m["plain_corr_"+name] = mean(vals)
	}
	return m
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
