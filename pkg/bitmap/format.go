// Package bitmap implements an uncompressed BMP raster: a packed in-memory
// canvas for 24-bit truecolor and 1-bit indexed images, and an exact encoder
// for the BITMAPFILEHEADER + BITMAPINFOHEADER file layout.
package bitmap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

var (
	// ErrInvalidDimension reports a width, height or derived size that the
	// file format cannot encode.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrIO reports a failure to persist an encoded file.
	ErrIO = errors.New("bitmap I/O failure")
)

// PixelFormat selects the on-disk pixel layout.
type PixelFormat int

const (
	// RGB24 stores 3 bytes per pixel in blue, green, red order.
	RGB24 PixelFormat = iota
	// Mono1 stores 1 bit per pixel, most significant bit first, indexing a
	// 2-entry palette.
	Mono1
)

// BitsPerPixel returns the value written to the info header.
func (f PixelFormat) BitsPerPixel() int {
	if f == Mono1 {
		return 1
	}
	return 24
}

// PaletteLen returns the number of palette bytes that follow the headers.
func (f PixelFormat) PaletteLen() int {
	if f == Mono1 {
		return 2 * 4
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case RGB24:
		return "rgb24"
	case Mono1:
		return "mono1"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ParsePixelFormat accepts "rgb24"/"24" and "mono1"/"1" (case-insensitive).
// An empty string selects RGB24.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgb24", "24", "rgb":
		return RGB24, nil
	case "mono1", "1", "mono":
		return Mono1, nil
	default:
		return 0, fmt.Errorf("unknown pixel format %q: use rgb24 or mono1", s)
	}
}

// MinRowBytes is the unpadded number of bytes one row of width pixels needs.
func MinRowBytes(width int, f PixelFormat) int {
	if f == Mono1 {
		return (width + 7) / 8
	}
	return width * 3
}

// RowStride is MinRowBytes rounded up to a multiple of 4.
func RowStride(width int, f PixelFormat) int {
	return (MinRowBytes(width, f) + 3) &^ 3
}

// ImageSpec describes one raster. Background is palette index 0 and
// Foreground palette index 1; both are used for RGB24 as fill and ink.
type ImageSpec struct {
	Width      int
	Height     int
	Format     PixelFormat
	Background color.RGBA
	Foreground color.RGBA
}

// maxFileSize is the largest file the 32-bit file_size field can describe.
const maxFileSize = math.MaxUint32

// Validate checks that the spec can be encoded. Errors wrap ErrInvalidDimension.
func (s ImageSpec) Validate() error {
	if s.Width <= 0 || s.Width > math.MaxInt32 {
		return fmt.Errorf("%w: width %d must be in [1, %d]", ErrInvalidDimension, s.Width, math.MaxInt32)
	}
	if s.Height <= 0 || s.Height > math.MaxInt32 {
		return fmt.Errorf("%w: height %d must be in [1, %d]", ErrInvalidDimension, s.Height, math.MaxInt32)
	}
	if s.Format != RGB24 && s.Format != Mono1 {
		return fmt.Errorf("%w: unsupported pixel format %v", ErrInvalidDimension, s.Format)
	}
	stride := uint64(RowStride(s.Width, s.Format))
	total := uint64(headersLen+s.Format.PaletteLen()) + stride*uint64(s.Height)
	if total > maxFileSize {
		return fmt.Errorf("%w: %dx%d %v image needs %d bytes, more than a BMP can address",
			ErrInvalidDimension, s.Width, s.Height, s.Format, total)
	}
	return nil
}

// ImageSize is the pixel buffer length, height × row stride.
func (s ImageSpec) ImageSize() int {
	return s.Height * RowStride(s.Width, s.Format)
}

// FileSize is the total encoded length: headers, palette and pixel buffer.
func (s ImageSpec) FileSize() int {
	return headersLen + s.Format.PaletteLen() + s.ImageSize()
}
