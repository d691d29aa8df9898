// Package pixbuf holds the raw 8-bit sample buffers exchanged between the
// image codec and the cipher engine.
package pixbuf

import (
	"errors"
	"fmt"
)

var ErrShape = errors.New("pixbuf: buffer does not match its shape")

// Buffer is a height x width x channels image with interleaved samples
// (row-major, channels innermost). A grayscale image has one channel.
type Buffer struct {
	Height   int
	Width    int
	Channels int
	Pix      []byte
}

func New(height, width, channels int) Buffer {
	return Buffer{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]byte, height*width*channels),
	}
}

// FromBytes wraps a copy of pix after checking it matches the shape.
func FromBytes(height, width, channels int, pix []byte) (Buffer, error) {
	b := Buffer{Height: height, Width: width, Channels: channels, Pix: append([]byte(nil), pix...)}
	if err := b.Validate(); err != nil {
		return Buffer{}, err
	}
	return b, nil
}

// PlaneLen is the number of samples per channel.
func (b Buffer) PlaneLen() int { return b.Height * b.Width }

func (b Buffer) Len() int { return b.Height * b.Width * b.Channels }

func (b Buffer) Validate() error {
	if b.Height <= 0 || b.Width <= 0 || b.Channels <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrShape, b.Height, b.Width, b.Channels)
	}
	if len(b.Pix) != b.Len() {
		return fmt.Errorf("%w: %d samples for %dx%dx%d", ErrShape, len(b.Pix), b.Height, b.Width, b.Channels)
	}
	return nil
}

func (b Buffer) SameShape(other Buffer) bool {
	return b.Height == other.Height && b.Width == other.Width && b.Channels == other.Channels
}

func (b Buffer) Clone() Buffer {
	c := b
	c.Pix = append([]byte(nil), b.Pix...)
	return c
}

// Plane copies channel c out as a flat height*width slice.
func (b Buffer) Plane(c int) []byte {
	n := b.PlaneLen()
	out := make([]byte, n)
	if b.Channels == 1 {
		copy(out, b.Pix)
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = b.Pix[i*b.Channels+c]
	}
	return out
}

// Planes splits the buffer into one slice per channel.
func (b Buffer) Planes() [][]byte {
	planes := make([][]byte, b.Channels)
	for c := range planes {
		planes[c] = b.Plane(c)
	}
	return planes
}

// FromPlanes interleaves equally sized planes into a new buffer.
func FromPlanes(height, width int, planes [][]byte) (Buffer, error) {
	b := New(height, width, len(planes))
	if b.Channels == 0 {
		return Buffer{}, fmt.Errorf("%w: no planes", ErrShape)
	}
	n := b.PlaneLen()
	for c, p := range planes {
		if len(p) != n {
			return Buffer{}, fmt.Errorf("%w: plane %d has %d samples, want %d", ErrShape, c, len(p), n)
		}
		for i, v := range p {
			b.Pix[i*b.Channels+c] = v
		}
	}
	return b, nil
}

// At returns the sample at row y, column x, channel c.
func (b Buffer) At(y, x, c int) byte {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Complement returns the bitwise NOT of every sample.
func (b Buffer) Complement() Buffer {
	c := b.Clone()
	for i := range c.Pix {
		c.Pix[i] = ^c.Pix[i]
	}
	return c
}
