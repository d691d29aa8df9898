package permute

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/san-kum/chaoscipher/internal/chaos"
)

func TestArgsortStableTieBreak(t *testing.T) {
	seq := []float64{0.5, 0.1, 0.5, 0.1, 0.3}
	got := Argsort(seq)
	want := Index{1, 3, 4, 0, 2}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestArgsortNaNLast(t *testing.T) {
	seq := []float64{math.NaN(), 2, math.Inf(-1), math.NaN(), 1}
	got := Argsort(seq)
	want := Index{2, 4, 1, 0, 3}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestArgsortIsBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 17, 1000} {
		seq := make([]float64, n)
		for i := range seq {
			// coarse values force plenty of ties
			seq[i] = float64(rng.Intn(10))
		}
		idx := Argsort(seq)
		if len(idx) != n || !idx.Valid() {
			t.Errorf("n=%d: argsort is not a permutation: %v", n, idx)
		}
	}
}

func TestIndexValid(t *testing.T) {
	tests := []struct {
		idx  Index
		want bool
	}{
		{Index{}, true},
		{Index{0}, true},
		{Index{2, 0, 1}, true},
		{Index{0, 0, 1}, false},
		{Index{0, 3, 1}, false},
		{Index{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.idx.Valid(); got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.idx, tt.want, got)
		}
	}
}

func TestInverse(t *testing.T) {
	idx := Index{3, 0, 2, 1}
	inv := idx.Inverse()
	for i := range idx {
		if inv[idx[i]] != i {
			t.Fatalf("inverse broken at %d: %v / %v", i, idx, inv)
		}
	}
}

func TestScrambleRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 5, 256, 4099} {
		buf := make([]byte, n)
		rng.Read(buf)
		seq := make([]float64, n)
		for i := range seq {
			seq[i] = rng.Float64()
		}

		scrambled, err := Scramble(buf, seq)
		if err != nil {
			t.Fatalf("scramble failed: %v", err)
		}
		restored, err := Unscramble(scrambled, seq)
		if err != nil {
			t.Fatalf("unscramble failed: %v", err)
		}
		if !bytes.Equal(restored, buf) {
			t.Errorf("n=%d: round trip mismatch", n)
		}
	}
}

func TestScrambleDoesNotAlias(t *testing.T) {
	buf := []byte{1, 2, 3}
	out, _ := Scramble(buf, []float64{0.3, 0.2, 0.1})
	out[0] = 99
	if buf[0] != 1 {
		t.Error("scramble output aliases its input")
	}
}

func TestScrambleLengthMismatch(t *testing.T) {
	_, err := Scramble([]byte{1, 2, 3}, []float64{0.1, 0.2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	_, err = Unscramble([]byte{1}, nil)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestLogisticScenario(t *testing.T) {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	seq := chaos.NewLogistic().Sequence(0.6, 16)

	idx := Argsort(seq)
	want := Index{8, 4, 9, 13, 5, 1, 10, 14, 6, 2, 11, 15, 0, 12, 3, 7}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("pinned permutation changed: expected %v, got %v", want, idx)
	}

	scrambled, err := Scramble(buf, seq)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(scrambled, []byte{8, 4, 9, 13, 5, 1, 10, 14, 6, 2, 11, 15, 0, 12, 3, 7}) {
		t.Errorf("unexpected scrambled buffer %v", scrambled)
	}

	restored, err := Unscramble(scrambled, chaos.NewLogistic().Sequence(0.6, 16))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restored, buf) {
		t.Errorf("expected %v, got %v", buf, restored)
	}
}

func TestSeedSensitivity(t *testing.T) {
	l := chaos.NewLogistic()
	const n = 256

	a := Argsort(l.Sequence(0.6, n))
	b := Argsort(l.Sequence(0.6+1e-9, n))

	if d := a.Diff(b); d < 0.5 {
		t.Errorf("expected at least half the positions to differ, got %.1f%%", d*100)
	}
}

func TestDiff(t *testing.T) {
	if d := (Index{0, 1, 2, 3}).Diff(Index{0, 1, 3, 2}); d != 0.5 {
		t.Errorf("expected 0.5, got %f", d)
	}
	if d := (Index{0}).Diff(Index{0, 1}); d != 1 {
		t.Errorf("expected 1 for different lengths, got %f", d)
	}
	if d := (Index{}).Diff(Index{}); d != 0 {
		t.Errorf("expected 0 for empty, got %f", d)
	}
}
