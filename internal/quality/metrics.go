package quality

import (
	"errors"
	"fmt"
	"math"
)

var ErrShapeMismatch = errors.New("quality: inputs differ in length")

// eps is float64 machine epsilon, added inside the logarithm so empty bins
// contribute zero instead of NaN.
const eps = 0x1p-52

func checkLen(a, b []byte) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d samples", ErrShapeMismatch, len(a), len(b))
	}
	return nil
}

// NPCR is the percentage of sample positions where a and b differ.
// Empty inputs score 0.
func NPCR(a, b []byte) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	diff := 0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	return float64(diff) / float64(len(a)) * 100, nil
}

// UACI is the mean absolute intensity difference between a and b, as a
// percentage of 255.
func UACI(a, b []byte) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	sum := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a)) / 255 * 100, nil
}

// Histogram counts occurrences of each byte value.
func Histogram(buf []byte) [256]int {
	var h [256]int
	for _, v := range buf {
		h[v]++
	}
	return h
}

// Entropy is -sum(p*log2(p+eps)) over the 256 normalized histogram bins.
// A constant buffer scores about 0 (slightly negative through eps), a
// uniform one 8. An empty buffer scores 0.
func Entropy(buf []byte) float64 {
	if len(buf) == 0 {
		return 0
	}
	h := Histogram(buf)
	total := float64(len(buf))
	e := 0.0
	for _, n := range h {
		p := float64(n) / total
		e -= p * math.Log2(p+eps)
	}
	return e
}

// Accuracy is the percentage of positions where a and b are equal, the
// usual check that decryption restored the original.
func Accuracy(a, b []byte) (float64, error) {
	if err := checkLen(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 100, nil
	}
	npcr, _ := NPCR(a, b)
	return 100 - npcr, nil
}
