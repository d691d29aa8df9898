// Package permute reorders flat buffers by the sort order of a chaotic
// sequence and restores them.
package permute

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrLengthMismatch = errors.New("permute: sequence length does not match buffer length")

// Index is a permutation of [0, N): Index[i] is the source position of the
// element that lands at position i.
type Index []int

// Argsort returns the positions of seq in ascending order of value. The
// order is total: NaN sorts after every number and ties keep their original
// relative order, so every runtime derives the same Index from the same
// sequence.
func Argsort(seq []float64) Index {
	idx := make(Index, len(seq))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return less(seq[idx[a]], seq[idx[b]])
	})
	return idx
}

func less(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN:
		return false
	case bNaN:
		return true
	}
	return a < b
}

// Valid reports whether idx is a bijection on [0, len(idx)).
func (idx Index) Valid() bool {
	seen := make([]bool, len(idx))
	for _, v := range idx {
		if v < 0 || v >= len(idx) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func (idx Index) Inverse() Index {
	inv := make(Index, len(idx))
	for i, v := range idx {
		inv[v] = i
	}
	return inv
}

// Diff returns the fraction of positions where idx and other disagree.
// Indexes of different length are completely different.
func (idx Index) Diff(other Index) float64 {
	if len(idx) != len(other) {
		return 1
	}
	if len(idx) == 0 {
		return 0
	}
	n := 0
	for i := range idx {
		if idx[i] != other[i] {
			n++
		}
	}
	return float64(n) / float64(len(idx))
}

// Scramble returns out with out[i] = buf[Argsort(seq)[i]].
func Scramble(buf []byte, seq []float64) ([]byte, error) {
	if len(seq) != len(buf) {
		return nil, fmt.Errorf("%w: %d values for %d elements", ErrLengthMismatch, len(seq), len(buf))
	}
	return Apply(buf, Argsort(seq)), nil
}

// Unscramble inverts Scramble given the same sequence.
func Unscramble(buf []byte, seq []float64) ([]byte, error) {
	if len(seq) != len(buf) {
		return nil, fmt.Errorf("%w: %d values for %d elements", ErrLengthMismatch, len(seq), len(buf))
	}
	return Restore(buf, Argsort(seq)), nil
}

// Apply gathers buf through idx. len(idx) must equal len(buf).
func Apply(buf []byte, idx Index) []byte {
	out := make([]byte, len(buf))
	for i, src := range idx {
		out[i] = buf[src]
	}
	return out
}

// Restore scatters buf back through idx, undoing Apply.
func Restore(buf []byte, idx Index) []byte {
	out := make([]byte, len(buf))
	for i, dst := range idx {
		out[dst] = buf[i]
	}
	return out
}
