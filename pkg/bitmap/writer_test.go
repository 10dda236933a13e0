package bitmap

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestWriteFileDecodes(t *testing.T) {
	spec := ImageSpec{
		Width: 23, Height: 9, Format: RGB24,
		Background: color.RGBA{0x10, 0x20, 0x30, 0xff},
		Foreground: color.RGBA{0xf0, 0xe0, 0xd0, 0xff},
	}
	c, err := New(spec)
	if err != nil {
		t.Fatal(err)
	}
	c.Line(image.Pt(0, 0), image.Pt(22, 0))
	c.Line(image.Pt(4, 1), image.Pt(4, 8))
	c.SetRGB(22, 8, color.RGBA{1, 2, 3, 0xff})

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := WriteFile(path, c); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := c.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, want) {
		t.Fatal("file contents differ from Bytes()")
	}

	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("x/image/bmp rejected the file: %v", err)
	}
	if img.Bounds() != c.Bounds() {
		t.Fatalf("bounds %v, want %v", img.Bounds(), c.Bounds())
	}
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2, _ := c.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Fatalf("pixel (%d,%d): decoded %v, canvas %v", x, y, img.At(x, y), c.At(x, y))
			}
		}
	}
}

func TestWriteConcatenates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.bin")
	if err := Write(path, []byte("ab"), []byte("cd"), nil, []byte("ef")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abcdef" {
		t.Errorf("got %q", data)
	}
}

func TestWriteIOFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.bmp")
	err := Write(path, []byte("x"), nil, nil, nil)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []byte("new"), nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("got %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}
