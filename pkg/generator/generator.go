// Package generator renders Minkowski sausage curves to image files.
//
// Every output follows one pipeline: resolve a Config into an image spec and
// a starting segment, draw the curve onto a bitmap.Canvas, then write the
// canvas as BMP, PNG, or an MJPEG AVI that steps through the depths.
package generator

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/xob0t/GoSausage/pkg/bitmap"
	"github.com/xob0t/GoSausage/pkg/curve"
)

// Config holds parameters for one render.
type Config struct {
	Width        int          `json:"width"`           // Pixel width (default: fits the curve)
	Height       int          `json:"height"`          // Pixel height (default: fits the curve)
	Format       string       `json:"format"`          // "rgb24" (default) or "mono1"
	Background   string       `json:"background"`      // Hex "#rrggbb" or "random" (default: #000000)
	Foreground   string       `json:"foreground"`      // Hex "#rrggbb" or "random" (default: #ffffff)
	Mode         string       `json:"mode"`            // "depth" (default), "unit" or "pen"
	Depth        int          `json:"depth"`           // Recursion depth, 0..7
	LineLen      int          `json:"lineLen"`         // Leaf length in pixels (default: 3)
	Orientation  string       `json:"orientation"`     // Heading of the base segment (default: right)
	Start        *image.Point `json:"start,omitempty"` // Segment start (default: centres the curve)
	Workers      int          `json:"workers"`         // >1 generates sub-segments concurrently
	Caption      bool         `json:"caption"`         // Label PNG/AVI output with the parameters
	FontPath     string       `json:"fontPath"`        // Caption TTF (default: embedded Go Regular)
	FrameSeconds int          `json:"frameSeconds"`    // AVI only: seconds per depth (default: 1)
}

// Modes accepted by Config.Mode.
const (
	ModeDepth = "depth"
	ModeUnit  = "unit"
	ModePen   = "pen"
)

const (
	defaultLineLen = 3
	margin         = 8
)

// Limits on work a single render may request.
const (
	// MaxFrameSeconds bounds how long an AVI holds each depth.
	MaxFrameSeconds = 60
	// MaxCaptionPixels bounds the RGBA copy a captioned preview needs.
	MaxCaptionPixels = 1 << 26
)

// Plan is a Config resolved into concrete geometry.
type Plan struct {
	Spec        bitmap.ImageSpec
	Mode        string
	Depth       int
	LineLen     int
	Orientation curve.Orientation
	Segment     curve.Segment
	Workers     int
}

// Resolve validates cfg, applies defaults and computes the canvas and base
// segment. Dimension and depth problems are reported before anything is
// allocated and wrap bitmap.ErrInvalidDimension.
func Resolve(cfg Config) (Plan, error) {
	var p Plan

	if err := curve.CheckDepth(cfg.Depth); err != nil {
		return p, err
	}
	p.Depth = cfg.Depth
	p.LineLen = cfg.LineLen
	if p.LineLen == 0 {
		p.LineLen = defaultLineLen
	}
	if p.LineLen < 0 {
		return p, fmt.Errorf("%w: line length %d", bitmap.ErrInvalidDimension, p.LineLen)
	}
	p.Workers = cfg.Workers
	if cfg.FrameSeconds < 0 || cfg.FrameSeconds > MaxFrameSeconds {
		return p, fmt.Errorf("frame seconds %d not in [0, %d]", cfg.FrameSeconds, MaxFrameSeconds)
	}

	p.Mode = strings.ToLower(cfg.Mode)
	switch p.Mode {
	case "":
		p.Mode = ModeDepth
	case ModeDepth, ModeUnit, ModePen:
	default:
		return p, fmt.Errorf("unknown mode %q: use depth, unit or pen", cfg.Mode)
	}

	format, err := bitmap.ParsePixelFormat(cfg.Format)
	if err != nil {
		return p, err
	}
	bg, err := ParseColor(defaultString(cfg.Background, "#000000"))
	if err != nil {
		return p, fmt.Errorf("background: %w", err)
	}
	fg, err := ParseColor(defaultString(cfg.Foreground, "#ffffff"))
	if err != nil {
		return p, fmt.Errorf("foreground: %w", err)
	}

	p.Orientation = curve.Right
	if cfg.Orientation != "" {
		if p.Orientation, err = curve.ParseOrientation(cfg.Orientation); err != nil {
			return p, err
		}
	}

	span := curve.SpanForDepth(p.Depth, p.LineLen)
	horizontal := p.Orientation == curve.Right || p.Orientation == curve.Left

	// The dimension-driven mode fills the given extent edge to edge; the
	// other dimension is then fitted to that span.
	if p.Mode == ModeUnit && horizontal && cfg.Width > 0 {
		span = max(cfg.Width-2*margin, 1)
	} else if p.Mode == ModeUnit && !horizontal && cfg.Height > 0 {
		span = max(cfg.Height-2*margin, 1)
	}
	along, across := fitCurve(span)

	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = along
		if !horizontal {
			w = across
		}
	}
	if h == 0 {
		h = across
		if !horizontal {
			h = along
		}
	}
	p.Spec = bitmap.ImageSpec{Width: w, Height: h, Format: format, Background: bg, Foreground: fg}
	if err := p.Spec.Validate(); err != nil {
		return p, err
	}

	delta := p.Orientation.Delta()
	if cfg.Start != nil {
		p.Segment.Start = *cfg.Start
	} else {
		centre := image.Pt(w/2, h/2)
		p.Segment.Start = centre.Sub(delta.Mul(span / 2))
	}
	p.Segment.End = p.Segment.Start.Add(delta.Mul(span))
	return p, nil
}

// fitCurve returns the canvas extent along and across a curve of the given
// span. Perpendicular excursions are bounded by span/4 · (1 + 1/4 + …) <
// span/3 on each side.
func fitCurve(span int) (along, across int) {
	return span + 2*margin + 1, 2*(span/3) + 2*margin + 1
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Draw renders the planned curve onto c at the given depth. Depths below
// p.Depth keep the same base segment, which is how the AVI frames grow.
func (p Plan) Draw(c curve.Sink, depth int, obs curve.Observer) error {
	switch p.Mode {
	case ModePen:
		pen := &curve.Pen{
			Pos:      p.Segment.Start,
			LineLen:  p.Segment.Len() >> (2 * depth),
			Width:    p.Spec.Width,
			Sink:     c,
			Observer: obs,
		}
		if pen.LineLen < 1 {
			pen.LineLen = 1
		}
		if p.Orientation != curve.Right {
			pen.Width = 0 // the width cut-off only bounds rightward walks
		}
		return pen.Walk(depth, p.Orientation)
	case ModeUnit:
		g := &curve.Generator{Sink: c, Observer: obs}
		unit := p.LineLen
		if depth < p.Depth {
			unit = max(unit, p.Segment.Len()>>(2*depth))
		}
		if p.Workers > 1 {
			return g.ParallelMinUnit(p.Segment, unit, p.Workers)
		}
		return g.MinUnit(p.Segment, unit)
	default:
		g := &curve.Generator{Sink: c, Observer: obs}
		if p.Workers > 1 {
			return g.ParallelDepth(p.Segment, depth, p.Workers)
		}
		return g.Depth(p.Segment, depth)
	}
}

// Render resolves cfg and draws the curve on a fresh canvas.
func Render(cfg Config) (*bitmap.Canvas, error) {
	p, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	return p.Render(p.Depth, nil)
}

// Render draws the plan at depth on a fresh canvas.
func (p Plan) Render(depth int, obs curve.Observer) (*bitmap.Canvas, error) {
	c, err := bitmap.New(p.Spec)
	if err != nil {
		return nil, err
	}
	Logger().Debug("render",
		"mode", p.Mode, "depth", depth, "line_len", p.LineLen,
		"width", p.Spec.Width, "height", p.Spec.Height, "format", p.Spec.Format.String(),
		"start", p.Segment.Start, "end", p.Segment.End)
	if err := p.Draw(c, depth, obs); err != nil {
		return nil, err
	}
	return c, nil
}

// Generate creates an output file. The format is inferred from the file extension:
//   - ".bmp" → uncompressed BMP
//   - ".png" → PNG image
//   - ".avi" → MJPEG AVI, one still per depth from 0 to cfg.Depth
func Generate(output string, cfg Config) error {
	gen, err := ForExtension(filepath.Ext(output))
	if err != nil {
		return err
	}
	if err := gen.Generate(output, cfg); err != nil {
		return err
	}
	Logger().Info("wrote file", "path", output)
	return nil
}

// GenerateToWriter writes media to an io.Writer. The format is specified by ext (".bmp", ".png" or ".avi").
// This is useful for in-memory generation (e.g., HTTP and WASM).
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	gen, err := ForExtension(ext)
	if err != nil {
		return err
	}
	return gen.Encode(w, cfg)
}

// ForExtension returns the generator for a file extension.
func ForExtension(ext string) (Generator, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "bmp":
		return NewBMPGenerator(), nil
	case "png":
		return NewPNGGenerator(), nil
	case "avi":
		return NewAVIGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use .bmp, .png or .avi", ext)
	}
}
