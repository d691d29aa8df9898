// Package imageio converts between encoded image files and pixel buffers.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"github.com/san-kum/chaoscipher/internal/pixbuf"
)

type ColorModel string

const (
	Gray ColorModel = "gray"
	RGB  ColorModel = "rgb"
)

var ErrColorModel = errors.New("imageio: unsupported color model")

func ParseColorModel(s string) (ColorModel, error) {
	switch ColorModel(s) {
	case Gray, RGB:
		return ColorModel(s), nil
	case "l", "L":
		return Gray, nil
	}
	return "", fmt.Errorf("%w: %q", ErrColorModel, s)
}

func (m ColorModel) Channels() int {
	if m == RGB {
		return 3
	}
	return 1
}

func Load(path string, model ColorModel) (pixbuf.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	defer f.Close()
	return Decode(f, model)
}

func Decode(r io.Reader, model ColorModel) (pixbuf.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img, model)
}

// FromImage flattens img into a buffer. Gray conversion uses luma weights
// 0.299/0.587/0.114; alpha is dropped.
func FromImage(img image.Image, model ColorModel) (pixbuf.Buffer, error) {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	switch model {
	case Gray:
		gray, ok := img.(*image.Gray)
		if !ok {
			g := gift.New(gift.Grayscale())
			gray = image.NewGray(g.Bounds(bounds))
			g.Draw(gray, img)
		}
		buf := pixbuf.New(h, w, 1)
		for y := 0; y < h; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
			copy(buf.Pix[y*w:], row)
		}
		return buf, nil

	case RGB:
		rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
		buf := pixbuf.New(h, w, 3)
		for i := 0; i < h*w; i++ {
			copy(buf.Pix[i*3:i*3+3], rgba.Pix[i*4:i*4+3])
		}
		return buf, nil
	}
	return pixbuf.Buffer{}, fmt.Errorf("%w: %q", ErrColorModel, model)
}

// ToImage wraps a one or three channel buffer as an image.
func ToImage(b pixbuf.Buffer) (image.Image, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, b.Width, b.Height)
	switch b.Channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, b.Pix)
		return img, nil
	case 3:
		img := image.NewNRGBA(rect)
		for i := 0; i < b.PlaneLen(); i++ {
			img.Pix[i*4+0] = b.Pix[i*3+0]
			img.Pix[i*4+1] = b.Pix[i*3+1]
			img.Pix[i*4+2] = b.Pix[i*3+2]
			img.Pix[i*4+3] = 0xff
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %d channels", ErrColorModel, b.Channels)
}

// Save writes b as a PNG, which keeps every sample exact.
func Save(path string, b pixbuf.Buffer) error {
	img, err := ToImage(b)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Thumbnail shrinks b to fit within maxW x maxH with nearest-neighbour
// sampling, keeping the aspect ratio. Smaller buffers are returned as is.
func Thumbnail(b pixbuf.Buffer, maxW, maxH int) (pixbuf.Buffer, error) {
	if b.Width <= maxW && b.Height <= maxH {
		return b.Clone(), nil
	}
	img, err := ToImage(b)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	small := resize.Thumbnail(uint(maxW), uint(maxH), img, resize.NearestNeighbor)
	model := Gray
	if b.Channels == 3 {
		model = RGB
	}
	return FromImage(small, model)
}

// Luma returns the gray level of one pixel of b.
func Luma(b pixbuf.Buffer, y, x int) uint8 {
	if b.Channels < 3 {
		return b.At(y, x, 0)
	}
	c := color.RGBA{R: b.At(y, x, 0), G: b.At(y, x, 1), B: b.At(y, x, 2), A: 0xff}
	return color.GrayModel.Convert(c).(color.Gray).Y
}
