package substitute

import (
	"fmt"

	"github.com/san-kum/chaoscipher/internal/chaos"
)

// HenonSeed parameterizes the keystream: map constants and initial state.
type HenonSeed struct {
	A  float64
	B  float64
	X0 float64
	Y0 float64
	Z0 float64
}

func DefaultHenonSeed() HenonSeed {
	return HenonSeed{A: chaos.DefaultHenonA, B: chaos.DefaultHenonB, X0: 0.1, Y0: 0.2, Z0: 0.3}
}

// Stream XORs the image with one keystream laid over the interleaved pixel
// order, so channel c of pixel i uses keystream byte i*channels+c. Seal and
// Open are the same operation.
type Stream struct {
	seed HenonSeed
}

func NewStream(seed HenonSeed) *Stream { return &Stream{seed: seed} }

func (s *Stream) Kind() Kind { return KindStream }

// Keystream returns the first n bytes of this mode's keystream.
func (s *Stream) Keystream(n int) []byte {
	h := &chaos.Henon3D{A: s.seed.A, B: s.seed.B}
	return chaos.HenonKeystream(h, s.seed.X0, s.seed.Y0, s.seed.Z0, n)
}

func (s *Stream) Seal(parts [][]byte, shape Shape) ([][]byte, error) {
	return s.apply(parts, shape)
}

func (s *Stream) Open(parts [][]byte, shape Shape) ([][]byte, error) {
	return s.apply(parts, shape)
}

func (s *Stream) apply(parts [][]byte, shape Shape) ([][]byte, error) {
	if err := checkParts(parts, shape, true); err != nil {
		return nil, err
	}
	n := shape.PlaneLen()
	ks := s.Keystream(n * shape.Channels)

	out := make([][]byte, len(parts))
	for c, p := range parts {
		plane := make([]byte, n)
		for i, v := range p {
			plane[i] = v ^ ks[i*shape.Channels+c]
		}
		out[c] = plane
	}
	return out, nil
}

// XOR combines buf with an equally long keystream. Applying it twice with
// the same keystream restores buf.
func XOR(buf, ks []byte) ([]byte, error) {
	if len(buf) != len(ks) {
		return nil, fmt.Errorf("%w: %d bytes with %d keystream bytes", ErrPartLength, len(buf), len(ks))
	}
	out := make([]byte, len(buf))
	for i := range buf {
		out[i] = buf[i] ^ ks[i]
	}
	return out, nil
}
