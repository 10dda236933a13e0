// png.go - PNG preview writer.
package generator

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

// PNGGenerator writes the rendered canvas as a PNG, optionally captioned.
type PNGGenerator struct{}

// NewPNGGenerator creates a new PNG generator.
func NewPNGGenerator() *PNGGenerator {
	return &PNGGenerator{}
}

// Generate renders cfg and writes a PNG file at output.
func (g *PNGGenerator) Generate(output string, cfg Config) error {
	var buf bytes.Buffer
	if err := g.Encode(&buf, cfg); err != nil {
		return err
	}
	return writeFile(output, buf.Bytes())
}

// Encode renders cfg and writes PNG data to w.
func (g *PNGGenerator) Encode(w io.Writer, cfg Config) error {
	p, err := Resolve(cfg)
	if err != nil {
		return err
	}
	if err := checkCaption(p, cfg); err != nil {
		return err
	}
	c, err := p.Render(p.Depth, nil)
	if err != nil {
		return err
	}
	img, err := preview(c, p, p.Depth, cfg)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// preview returns the image to hand to lossy or paletted encoders: the
// canvas itself, or a captioned copy.
func preview(c *bitmap.Canvas, p Plan, depth int, cfg Config) (image.Image, error) {
	if !cfg.Caption {
		return c, nil
	}
	fm, err := NewFontManager(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	return fm.Caption(c, captionText(p, depth), p.Spec.Foreground)
}

// writeFile persists encoded bytes with the same atomic rename the BMP path uses.
func writeFile(output string, data []byte) error {
	if err := bitmap.Write(output, data, nil, nil, nil); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(output), err)
	}
	return nil
}
