package substitute

import "fmt"

type Kind string

const (
	KindBlock  Kind = "block"
	KindStream Kind = "stream"
)

// Shape describes the image the parts belong to.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

func (s Shape) PlaneLen() int { return s.Height * s.Width }

// Mode is one substitution strategy. Seal and Open take one part per
// channel and return fresh slices.
type Mode interface {
	Kind() Kind
	Seal(parts [][]byte, shape Shape) ([][]byte, error)
	Open(parts [][]byte, shape Shape) ([][]byte, error)
}

func checkParts(parts [][]byte, shape Shape, exact bool) error {
	if len(parts) != shape.Channels {
		return fmt.Errorf("%w: %d parts for %d channels", ErrPartLength, len(parts), shape.Channels)
	}
	if !exact {
		return nil
	}
	for c, p := range parts {
		if len(p) != shape.PlaneLen() {
			return fmt.Errorf("%w: channel %d has %d bytes, want %d", ErrPartLength, c, len(p), shape.PlaneLen())
		}
	}
	return nil
}
