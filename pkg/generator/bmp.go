// bmp.go - BMP output. The canvas already holds pixels in file order, so the
// file is the header bytes followed by the buffer, written atomically.
package generator

import (
	"fmt"
	"io"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

// BMPGenerator writes uncompressed 24-bit or 1-bit BMP files.
type BMPGenerator struct{}

// NewBMPGenerator creates a new BMP generator.
func NewBMPGenerator() *BMPGenerator {
	return &BMPGenerator{}
}

// Generate renders cfg and writes it to output. Nothing is written when the
// render fails.
func (g *BMPGenerator) Generate(output string, cfg Config) error {
	c, err := Render(cfg)
	if err != nil {
		return err
	}
	if err := bitmap.WriteFile(output, c); err != nil {
		return fmt.Errorf("write BMP: %w", err)
	}
	return nil
}

// Encode renders cfg and streams the BMP file to w.
func (g *BMPGenerator) Encode(w io.Writer, cfg Config) error {
	c, err := Render(cfg)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}
