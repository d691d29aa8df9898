package viz

import (
	"strings"

	"github.com/san-kum/chaoscipher/internal/imageio"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
)

// Braille patterns hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// bayer is a 4x4 ordered dither matrix scaled to 0..255.
var bayer = [4][4]uint8{
	{0, 128, 32, 160},
	{192, 64, 224, 96},
	{48, 176, 16, 144},
	{240, 112, 208, 80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawImage dithers b onto the canvas, scaling it to fill every dot.
// Bright pixels light dots.
func (c *Canvas) DrawImage(b pixbuf.Buffer) {
	c.Clear()
	dotsW, dotsH := c.Width*2, c.Height*4
	if b.Width == 0 || b.Height == 0 || dotsW == 0 || dotsH == 0 {
		return
	}
	for y := 0; y < dotsH; y++ {
		sy := y * b.Height / dotsH
		for x := 0; x < dotsW; x++ {
			sx := x * b.Width / dotsW
			if imageio.Luma(b, sy, sx) > bayer[y%4][x%4] {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// RenderImage draws b into a cols x rows Braille block.
func RenderImage(b pixbuf.Buffer, cols, rows int) string {
	c := NewCanvas(cols, rows)
	c.DrawImage(b)
	return c.String()
}
