// caption.go - Parameter captions for PNG and AVI previews. Uses
// golang.org/x/image/font for OpenType rendering and falls back to the
// embedded Go Regular font when no custom font is given or it fails to load.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

const (
	captionSize = 12
	captionDPI  = 72
	captionPad  = 4
)

// FontManager handles font loading with fallback.
type FontManager struct {
	parsed *opentype.Font
}

// NewFontManager creates a font manager with the specified font.
// If customPath is empty or invalid, uses embedded Go font.
func NewFontManager(customPath string) (*FontManager, error) {
	var fontData []byte

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			Logger().Warn("could not load caption font, using default", "path", customPath, "err", err)
		} else {
			fontData = data
		}
	}
	if fontData == nil {
		fontData = goregular.TTF
	}

	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontManager{parsed: parsed}, nil
}

// Face returns a font.Face at the specified size.
func (fm *FontManager) Face(size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = captionDPI
	}
	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Caption copies src into an RGBA image and draws text in its top-left
// corner. The source canvas is left untouched.
func (fm *FontManager) Caption(src image.Image, text string, ink color.Color) (*image.RGBA, error) {
	face, err := fm.Face(captionSize, captionDPI)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	ascent := face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(captionPad), Y: fixed.I(captionPad) + ascent},
	}
	d.DrawString(text)
	return dst, nil
}

// checkCaption rejects captions on canvases too large to copy to RGBA. It
// runs before anything is rendered.
func checkCaption(p Plan, cfg Config) error {
	if !cfg.Caption {
		return nil
	}
	if px := int64(p.Spec.Width) * int64(p.Spec.Height); px > MaxCaptionPixels {
		return fmt.Errorf("%w: %dx%d canvas too large to caption (%d pixels, limit %d)",
			bitmap.ErrInvalidDimension, p.Spec.Width, p.Spec.Height, px, MaxCaptionPixels)
	}
	return nil
}

func captionText(p Plan, depth int) string {
	return fmt.Sprintf("minkowski %s depth=%d line=%d %dx%d", p.Mode, depth, p.LineLen, p.Spec.Width, p.Spec.Height)
}
