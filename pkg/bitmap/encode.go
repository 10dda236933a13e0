package bitmap

import (
	"bytes"
	"io"
)

// WriteTo writes the complete BMP file: file header, info header, palette
// and pixel buffer, in that order.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	h, err := BuildHeader(c.spec)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, part := range [][]byte{h.File[:], h.Info[:], h.Palette, c.buf} {
		if len(part) == 0 {
			continue
		}
		m, err := w.Write(part)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Bytes returns the encoded file.
func (c *Canvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(c.spec.FileSize())
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
