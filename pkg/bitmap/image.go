package bitmap

import (
	"image"
	"image/color"
)

// ColorModel implements image.Image. Mono1 canvases report their 2-entry
// palette.
func (c *Canvas) ColorModel() color.Model {
	if c.spec.Format == Mono1 {
		return color.Palette{c.spec.Background, c.spec.Foreground}
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.spec.Width, c.spec.Height)
}

// At implements image.Image, decoding the pixel through the same row flip and
// bit packing used for writes.
func (c *Canvas) At(x, y int) color.Color {
	if !c.inBounds(x, y) {
		return color.RGBA{}
	}
	if c.spec.Format == Mono1 {
		if c.Index(x, y) == 1 {
			return c.spec.Foreground
		}
		return c.spec.Background
	}
	return c.rgbAt(x, y)
}
