// avi.go - Depth progression as an MJPEG AVI. Frame k shows the curve
// subdivided k times on the same base segment, so playback shows the
// sausage growing from a straight line. The RIFF layout is the classic
// AVI 1.0 one: hdrl (avih + strl), movi, idx1.
package generator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
	"io"
)

const aviFPS = 1

// AVIGenerator generates AVI files with an MJPEG video track.
type AVIGenerator struct{}

// NewAVIGenerator creates a new AVI generator.
func NewAVIGenerator() *AVIGenerator {
	return &AVIGenerator{}
}

// Generate writes the AVI to output.
func (g *AVIGenerator) Generate(output string, cfg Config) error {
	var buf bytes.Buffer
	if err := g.Encode(&buf, cfg); err != nil {
		return err
	}
	return writeFile(output, buf.Bytes())
}

// Encode renders depths 0..cfg.Depth and writes them as an AVI stream.
func (g *AVIGenerator) Encode(w io.Writer, cfg Config) error {
	p, err := Resolve(cfg)
	if err != nil {
		return err
	}
	if err := checkCaption(p, cfg); err != nil {
		return err
	}
	hold := max(cfg.FrameSeconds, 1)

	stills := make([][]byte, 0, p.Depth+1)
	for depth := 0; depth <= p.Depth; depth++ {
		c, err := p.Render(depth, nil)
		if err != nil {
			return err
		}
		img, err := preview(c, p, depth, cfg)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
		Logger().Debug("avi frame", "depth", depth, "bytes", buf.Len())
		stills = append(stills, buf.Bytes())
	}

	frames := make([][]byte, 0, len(stills)*hold)
	for _, s := range stills {
		for range hold {
			frames = append(frames, s)
		}
	}
	return writeAVI(w, frames, uint32(p.Spec.Width), uint32(p.Spec.Height))
}

func padded(n int) uint32 {
	return uint32(n + n%2)
}

// writeAVI writes frames, each a complete JPEG, as an MJPEG AVI.
func writeAVI(out io.Writer, frames [][]byte, width, height uint32) error {
	if len(frames) == 0 {
		return fmt.Errorf("avi: no frames")
	}
	totalFrames := uint32(len(frames))
	microSecPerFrame := uint32(1000000 / aviFPS)

	var moviSize uint32 = 4 // "movi"
	var maxFrame uint32
	for _, f := range frames {
		moviSize += 8 + padded(len(f)) // "00dc" + size + data
		maxFrame = max(maxFrame, uint32(len(f)))
	}
	idx1Size := 8 + totalFrames*16 // idx1 header + entries

	var err error
	writeFourCC := func(s string) {
		if err == nil {
			_, err = io.WriteString(out, s)
		}
	}
	writeUint32 := func(v uint32) {
		if err == nil {
			err = binary.Write(out, binary.LittleEndian, v)
		}
	}
	writeUint16 := func(v uint16) {
		if err == nil {
			err = binary.Write(out, binary.LittleEndian, v)
		}
	}
	writeBytes := func(b []byte) {
		if err == nil {
			_, err = out.Write(b)
		}
	}

	// === RIFF Header ===
	hdrlSize := uint32(4 + 64 + 124) // "hdrl" + avih + strl
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	writeFourCC("RIFF")
	writeUint32(fileSize)
	writeFourCC("AVI ")

	// === hdrl LIST ===
	writeFourCC("LIST")
	writeUint32(hdrlSize)
	writeFourCC("hdrl")

	// === avih (Main AVI Header) - 56 bytes + 8 header ===
	writeFourCC("avih")
	writeUint32(56)
	writeUint32(microSecPerFrame)
	writeUint32(maxFrame * aviFPS) // max bytes per sec
	writeUint32(0)                 // padding granularity
	writeUint32(0x10)              // flags: AVIF_HASINDEX
	writeUint32(totalFrames)
	writeUint32(0) // initial frames
	writeUint32(1) // number of streams
	writeUint32(maxFrame)
	writeUint32(width)
	writeUint32(height)
	for range 4 {
		writeUint32(0) // reserved
	}

	// === strl LIST (Stream List) ===
	writeFourCC("LIST")
	writeUint32(116) // "strl" + strh(64) + strf(48)
	writeFourCC("strl")

	// === strh (Stream Header) - 56 bytes + 8 header ===
	writeFourCC("strh")
	writeUint32(56)
	writeFourCC("vids")
	writeFourCC("MJPG")
	writeUint32(0) // flags
	writeUint16(0) // priority
	writeUint16(0) // language
	writeUint32(0) // initial frames
	writeUint32(1) // scale
	writeUint32(aviFPS)
	writeUint32(0) // start
	writeUint32(totalFrames)
	writeUint32(maxFrame) // suggested buffer size
	writeUint32(0)        // quality
	writeUint32(0)        // sample size
	writeUint16(0)        // left
	writeUint16(0)        // top
	writeUint16(uint16(width))
	writeUint16(uint16(height))

	// === strf (Stream Format - BITMAPINFOHEADER) - 40 bytes + 8 header ===
	writeFourCC("strf")
	writeUint32(40)
	writeUint32(40) // biSize
	writeUint32(width)
	writeUint32(height)
	writeUint16(1)  // biPlanes
	writeUint16(24) // biBitCount
	writeFourCC("MJPG")
	writeUint32(width * height * 3)
	for range 4 {
		writeUint32(0) // resolution, colours used, important colours
	}

	// === movi LIST ===
	writeFourCC("LIST")
	writeUint32(moviSize)
	writeFourCC("movi")
	for _, f := range frames {
		writeFourCC("00dc")
		writeUint32(uint32(len(f)))
		writeBytes(f)
		if len(f)%2 != 0 {
			writeBytes([]byte{0})
		}
	}

	// === idx1 (Index) ===
	writeFourCC("idx1")
	writeUint32(totalFrames * 16)
	moviOffset := uint32(4) // offset from the "movi" fourcc
	for _, f := range frames {
		writeFourCC("00dc")
		writeUint32(0x10) // flags: AVIIF_KEYFRAME
		writeUint32(moviOffset)
		writeUint32(uint32(len(f)))
		moviOffset += 8 + padded(len(f))
	}

	if err != nil {
		return fmt.Errorf("write AVI: %w", err)
	}
	return nil
}
