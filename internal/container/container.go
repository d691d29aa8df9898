// Package container frames encrypted channel payloads with the image shape.
//
// All layouts put the payload first and a fixed big-endian trailer last:
//
//	FormatGray         [payload][height:4][width:4]
//	FormatColorLegacy  [payload][height:4][width:4][channels:1]
//	FormatColor        [payload][len_0:4]...[len_{c-1}:4][height:4][width:4][channels:1]
//
// The format is never detected from the bytes; the caller must know which
// one was written.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated    = errors.New("container: data shorter than trailer")
	ErrChannelSplit = errors.New("container: payload does not split evenly across channels")
	ErrFormat       = errors.New("container: unknown format")
	ErrDimensions   = errors.New("container: invalid dimensions")
)

type Format int

const (
	FormatGray Format = iota
	FormatColorLegacy
	FormatColor
)

func (f Format) String() string {
	switch f {
	case FormatGray:
		return "gray"
	case FormatColorLegacy:
		return "color-legacy"
	case FormatColor:
		return "color"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat accepts the names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "gray":
		return FormatGray, nil
	case "color-legacy", "legacy":
		return FormatColorLegacy, nil
	case "color":
		return FormatColor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

// ForChannels picks the default format for an image with the given number
// of channels.
func ForChannels(channels int) Format {
	if channels == 1 {
		return FormatGray
	}
	return FormatColor
}

type Header struct {
	Height   int
	Width    int
	Channels int
}

// Container is a decoded payload, split back into its channel parts.
type Container struct {
	Header
	Parts [][]byte
}

const (
	dimSize     = 4
	channelSize = 1
	maxDim      = 1<<32 - 1
)

// Encode concatenates parts and appends the trailer for format. FormatGray
// takes exactly one part.
func Encode(parts [][]byte, h Header, format Format) ([]byte, error) {
	if h.Height < 0 || h.Width < 0 || uint64(h.Height) > maxDim || uint64(h.Width) > maxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, h.Height, h.Width)
	}

	switch format {
	case FormatGray:
		if len(parts) != 1 {
			return nil, fmt.Errorf("%w: gray format takes 1 part, got %d", ErrDimensions, len(parts))
		}
	case FormatColorLegacy, FormatColor:
		if len(parts) < 1 || len(parts) > 255 {
			return nil, fmt.Errorf("%w: %d channels", ErrDimensions, len(parts))
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrFormat, int(format))
	}

	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make([]byte, 0, size+trailerLen(format, len(parts)))
	for _, p := range parts {
		out = append(out, p...)
	}

	if format == FormatColor {
		for _, p := range parts {
			if uint64(len(p)) > maxDim {
				return nil, fmt.Errorf("%w: part of %d bytes", ErrDimensions, len(p))
			}
			out = binary.BigEndian.AppendUint32(out, uint32(len(p)))
		}
	}
	out = binary.BigEndian.AppendUint32(out, uint32(h.Height))
	out = binary.BigEndian.AppendUint32(out, uint32(h.Width))
	if format != FormatGray {
		out = append(out, byte(len(parts)))
	}
	return out, nil
}

// Decode splits data written by Encode with the same format. The returned
// parts alias data.
func Decode(data []byte, format Format) (*Container, error) {
	switch format {
	case FormatGray:
		return decodeGray(data)
	case FormatColorLegacy:
		return decodeLegacy(data)
	case FormatColor:
		return decodeColor(data)
	}
	return nil, fmt.Errorf("%w: %d", ErrFormat, int(format))
}

func trailerLen(format Format, channels int) int {
	switch format {
	case FormatGray:
		return 2 * dimSize
	case FormatColorLegacy:
		return 2*dimSize + channelSize
	default:
		return channels*dimSize + 2*dimSize + channelSize
	}
}

func readDims(b []byte) (int, int) {
	return int(binary.BigEndian.Uint32(b[0:4])), int(binary.BigEndian.Uint32(b[4:8]))
}

func decodeGray(data []byte) (*Container, error) {
	if len(data) < 2*dimSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	end := len(data) - 2*dimSize
	h, w := readDims(data[end:])
	return &Container{
		Header: Header{Height: h, Width: w, Channels: 1},
		Parts:  [][]byte{data[:end]},
	}, nil
}

func decodeLegacy(data []byte) (*Container, error) {
	n := 2*dimSize + channelSize
	if len(data) < n {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	end := len(data) - n
	h, w := readDims(data[end:])
	c := int(data[len(data)-1])
	if c == 0 {
		return nil, fmt.Errorf("%w: zero channels", ErrDimensions)
	}
	payload := data[:end]
	if len(payload)%c != 0 {
		return nil, fmt.Errorf("%w: %d bytes over %d channels", ErrChannelSplit, len(payload), c)
	}

	step := len(payload) / c
	parts := make([][]byte, c)
	for i := range parts {
		parts[i] = payload[i*step : (i+1)*step]
	}
	return &Container{Header: Header{Height: h, Width: w, Channels: c}, Parts: parts}, nil
}

func decodeColor(data []byte) (*Container, error) {
	if len(data) < 2*dimSize+channelSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	c := int(data[len(data)-1])
	if c == 0 {
		return nil, fmt.Errorf("%w: zero channels", ErrDimensions)
	}
	n := trailerLen(FormatColor, c)
	if len(data) < n {
		return nil, fmt.Errorf("%w: %d bytes, trailer needs %d", ErrTruncated, len(data), n)
	}
	end := len(data) - n
	lens := data[end : end+c*dimSize]
	h, w := readDims(data[end+c*dimSize:])

	parts := make([][]byte, c)
	off := 0
	for i := range parts {
		l := int(binary.BigEndian.Uint32(lens[i*dimSize:]))
		if l > end-off {
			return nil, fmt.Errorf("%w: channel %d claims %d bytes, %d left", ErrChannelSplit, i, l, end-off)
		}
		parts[i] = data[off : off+l]
		off += l
	}
	if off != end {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrChannelSplit, end-off)
	}
	return &Container{Header: Header{Height: h, Width: w, Channels: c}, Parts: parts}, nil
}
