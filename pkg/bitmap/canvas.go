package bitmap

import (
	"image"
	"image/color"
)

// Canvas is a BMP pixel buffer in file order: rows bottom-to-top, each row
// padded to the stride. Logical coordinates are image coordinates with y
// growing downward, so (0, 0) lives in the last buffer row.
//
// Every drawing method silently drops coordinates outside the canvas.
type Canvas struct {
	spec   ImageSpec
	stride int
	buf    []byte
}

// New allocates a canvas for spec. RGB24 canvases are filled with the
// background colour; Mono1 canvases start zeroed, which is palette index 0.
func New(spec ImageSpec) (*Canvas, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	c := &Canvas{
		spec:   spec,
		stride: RowStride(spec.Width, spec.Format),
	}
	c.buf = make([]byte, spec.Height*c.stride)

	if spec.Format == RGB24 {
		bg := spec.Background
		row := c.buf[:c.stride]
		for x := 0; x < spec.Width; x++ {
			row[x*3] = bg.B
			row[x*3+1] = bg.G
			row[x*3+2] = bg.R
		}
		for y := 1; y < spec.Height; y++ {
			copy(c.buf[y*c.stride:(y+1)*c.stride], row)
		}
	}
	return c, nil
}

// Spec returns the image description the canvas was built from.
func (c *Canvas) Spec() ImageSpec { return c.spec }

// Stride returns the padded row length in bytes.
func (c *Canvas) Stride() int { return c.stride }

// Pix returns the pixel buffer. The slice aliases the canvas.
func (c *Canvas) Pix() []byte { return c.buf }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.spec.Width && y >= 0 && y < c.spec.Height
}

// rowOffset maps a logical y to the start of its buffer row.
func (c *Canvas) rowOffset(y int) int {
	return (c.spec.Height - 1 - y) * c.stride
}

// SetRGB overwrites one pixel. On a Mono1 canvas any colour other than the
// background sets the pixel's bit.
func (c *Canvas) SetRGB(x, y int, col color.RGBA) {
	if !c.inBounds(x, y) {
		return
	}
	if c.spec.Format == Mono1 {
		if col != c.spec.Background {
			c.setBit(x, y)
		}
		return
	}
	off := c.rowOffset(y) + x*3
	c.buf[off] = col.B
	c.buf[off+1] = col.G
	c.buf[off+2] = col.R
}

// SetIndex sets one pixel to a palette index. Index 0 is a no-op on Mono1
// because bits are never cleared. On RGB24 the index selects Background or
// Foreground.
func (c *Canvas) SetIndex(x, y int, idx uint8) {
	if c.spec.Format == RGB24 {
		if idx == 0 {
			c.SetRGB(x, y, c.spec.Background)
		} else {
			c.SetRGB(x, y, c.spec.Foreground)
		}
		return
	}
	if idx == 0 || !c.inBounds(x, y) {
		return
	}
	c.setBit(x, y)
}

// SetPixel paints one pixel with the foreground.
func (c *Canvas) SetPixel(x, y int) {
	if !c.inBounds(x, y) {
		return
	}
	if c.spec.Format == Mono1 {
		c.setBit(x, y)
		return
	}
	c.SetRGB(x, y, c.spec.Foreground)
}

func (c *Canvas) setBit(x, y int) {
	c.buf[c.rowOffset(y)+x/8] |= 1 << (7 - x%8)
}

// Index returns the palette index stored at (x, y): the bit for Mono1, or 1
// when an RGB24 pixel differs from the background. Out-of-range reads are 0.
func (c *Canvas) Index(x, y int) uint8 {
	if !c.inBounds(x, y) {
		return 0
	}
	if c.spec.Format == Mono1 {
		return (c.buf[c.rowOffset(y)+x/8] >> (7 - x%8)) & 1
	}
	if c.rgbAt(x, y) != c.spec.Background {
		return 1
	}
	return 0
}

func (c *Canvas) rgbAt(x, y int) color.RGBA {
	off := c.rowOffset(y) + x*3
	return color.RGBA{R: c.buf[off+2], G: c.buf[off+1], B: c.buf[off], A: 0xff}
}

// HorizontalLine paints the closed run [x1, x2] on row y. Argument order does
// not matter.
func (c *Canvas) HorizontalLine(y, x1, x2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y < 0 || y >= c.spec.Height {
		return
	}
	x1 = max(x1, 0)
	x2 = min(x2, c.spec.Width-1)
	for x := x1; x <= x2; x++ {
		c.SetPixel(x, y)
	}
}

// VerticalLine paints the closed run [y1, y2] on column x.
func (c *Canvas) VerticalLine(x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if x < 0 || x >= c.spec.Width {
		return
	}
	y1 = max(y1, 0)
	y2 = min(y2, c.spec.Height-1)
	for y := y1; y <= y2; y++ {
		c.SetPixel(x, y)
	}
}

// DiagonalLine paints a unit-slope line rising from the bottom scanline:
// pixel (xStart+r, height-1-r) for every r that keeps both coordinates on
// the canvas. A negative xStart enters the canvas at its left edge, r =
// -xStart scanlines above the bottom.
func (c *Canvas) DiagonalLine(xStart int) {
	for r := max(0, -xStart); r < c.spec.Height; r++ {
		x := xStart + r
		if x >= c.spec.Width {
			return
		}
		c.SetPixel(x, c.spec.Height-1-r)
	}
}

// Line paints the closed segment from a to b. Axis-aligned segments, the only
// kind the curve generators emit, take the row/column fast paths; anything
// else is walked with Bresenham's algorithm.
func (c *Canvas) Line(a, b image.Point) {
	switch {
	case a.Y == b.Y:
		c.HorizontalLine(a.Y, a.X, b.X)
	case a.X == b.X:
		c.VerticalLine(a.X, a.Y, b.Y)
	default:
		c.bresenham(a, b)
	}
}

func (c *Canvas) bresenham(a, b image.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		c.SetPixel(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
