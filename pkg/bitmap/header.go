// header.go - BITMAPFILEHEADER + BITMAPINFOHEADER encoding and decoding.
// All multi-byte fields are little-endian; offsets follow the BMP layout.
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headersLen    = fileHeaderLen + infoHeaderLen
)

// Header holds the encoded bytes that precede the pixel buffer.
type Header struct {
	File    [fileHeaderLen]byte
	Info    [infoHeaderLen]byte
	Palette []byte // 0 or 8 bytes
}

// Len returns the number of bytes before the pixel buffer.
func (h *Header) Len() int {
	return fileHeaderLen + infoHeaderLen + len(h.Palette)
}

// BuildHeader encodes the headers and palette for spec. It is a pure function
// of spec and fails with ErrInvalidDimension when spec cannot be encoded.
func BuildHeader(spec ImageSpec) (Header, error) {
	var h Header
	if err := spec.Validate(); err != nil {
		return h, err
	}

	paletteLen := spec.Format.PaletteLen()
	imageSize := spec.ImageSize()
	fileSize := headersLen + paletteLen + imageSize

	// BMP File Header (14 bytes)
	h.File[0] = 'B'
	h.File[1] = 'M'
	binary.LittleEndian.PutUint32(h.File[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(h.File[10:14], uint32(headersLen+paletteLen)) // Pixel data offset

	// DIB Header (40 bytes) - BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(h.Info[0:4], infoHeaderLen)
	binary.LittleEndian.PutUint32(h.Info[4:8], uint32(int32(spec.Width)))
	binary.LittleEndian.PutUint32(h.Info[8:12], uint32(int32(spec.Height)))
	binary.LittleEndian.PutUint16(h.Info[12:14], 1) // Color planes
	binary.LittleEndian.PutUint16(h.Info[14:16], uint16(spec.Format.BitsPerPixel()))
	binary.LittleEndian.PutUint32(h.Info[20:24], uint32(imageSize))

	if spec.Format == Mono1 {
		binary.LittleEndian.PutUint32(h.Info[32:36], 2) // Colors used
		h.Palette = []byte{
			spec.Background.B, spec.Background.G, spec.Background.R, 0,
			spec.Foreground.B, spec.Foreground.G, spec.Foreground.R, 0,
		}
	}
	return h, nil
}

// FileHeader is the decoded BITMAPFILEHEADER.
type FileHeader struct {
	Signature  [2]byte
	FileSize   uint32
	Reserved   uint32
	DataOffset uint32
}

// InfoHeader is the decoded BITMAPINFOHEADER.
type InfoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMeter int32
	YPixelsPerMeter int32
	ColorsUsed      uint32
	ImportantColors uint32
}

var errShortHeader = errors.New("bitmap header truncated")

// ParseHeader decodes the two headers at the start of an encoded file.
func ParseHeader(b []byte) (FileHeader, InfoHeader, error) {
	var fh FileHeader
	var ih InfoHeader
	if len(b) < headersLen {
		return fh, ih, fmt.Errorf("%w: have %d bytes, need %d", errShortHeader, len(b), headersLen)
	}
	copy(fh.Signature[:], b[0:2])
	if fh.Signature != [2]byte{'B', 'M'} {
		return fh, ih, fmt.Errorf("bad signature %q", fh.Signature[:])
	}
	le := binary.LittleEndian
	fh.FileSize = le.Uint32(b[2:6])
	fh.Reserved = le.Uint32(b[6:10])
	fh.DataOffset = le.Uint32(b[10:14])

	info := b[fileHeaderLen:]
	ih.HeaderSize = le.Uint32(info[0:4])
	if ih.HeaderSize != infoHeaderLen {
		return fh, ih, fmt.Errorf("unsupported info header size %d", ih.HeaderSize)
	}
	ih.Width = int32(le.Uint32(info[4:8]))
	ih.Height = int32(le.Uint32(info[8:12]))
	ih.Planes = le.Uint16(info[12:14])
	ih.BitsPerPixel = le.Uint16(info[14:16])
	ih.Compression = le.Uint32(info[16:20])
	ih.ImageSize = le.Uint32(info[20:24])
	ih.XPixelsPerMeter = int32(le.Uint32(info[24:28]))
	ih.YPixelsPerMeter = int32(le.Uint32(info[28:32]))
	ih.ColorsUsed = le.Uint32(info[32:36])
	ih.ImportantColors = le.Uint32(info[36:40])
	return fh, ih, nil
}
