// writer.go - Persist encoded bitmaps. Files are staged in a temporary file
// next to the destination and renamed into place, so readers observe either
// the previous contents or the complete new file.
package bitmap

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write concatenates the header parts and pixel buffer and persists them at
// path as one file. Any failure wraps ErrIO and leaves path untouched.
func Write(path string, fileHeader, infoHeader, palette, pixels []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrIO, dir, err)
	}
	tmp := f.Name()
	fail := func(op string, err error) error {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
	}

	for _, part := range [][]byte{fileHeader, infoHeader, palette, pixels} {
		if _, err := f.Write(part); err != nil {
			return fail("write", err)
		}
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename into %s: %w", ErrIO, path, err)
	}
	return nil
}

// WriteFile encodes c and writes it to path.
func WriteFile(path string, c *Canvas) error {
	h, err := BuildHeader(c.spec)
	if err != nil {
		return err
	}
	return Write(path, h.File[:], h.Info[:], h.Palette, c.buf)
}
