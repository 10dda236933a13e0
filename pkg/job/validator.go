// validator.go - Sanity checks on a resolved job.
package job

import (
	"fmt"
	"image"
	"strings"

	"github.com/xob0t/GoSausage/pkg/curve"
	"github.com/xob0t/GoSausage/pkg/generator"
)

// Validate checks a config for renders that will succeed but probably not
// look as intended. It returns warnings, never errors; a config that cannot
// render at all is reported by generator.Resolve.
func Validate(cfg generator.Config) []string {
	p, err := generator.Resolve(cfg)
	if err != nil {
		return nil
	}

	var warnings []string
	bounds := image.Rect(0, 0, p.Spec.Width, p.Spec.Height)
	if !p.Segment.Start.In(bounds) {
		warnings = append(warnings, fmt.Sprintf("start %v lies outside the %dx%d canvas", p.Segment.Start, p.Spec.Width, p.Spec.Height))
	}
	if !p.Segment.End.In(bounds) {
		warnings = append(warnings, fmt.Sprintf("curve ends at %v, outside the %dx%d canvas; the rest is clipped", p.Segment.End, p.Spec.Width, p.Spec.Height))
	}

	if ext := extent(p); !ext.Empty() && !ext.In(bounds) {
		warnings = append(warnings, fmt.Sprintf("curve covers %v, beyond the %dx%d canvas; the rest is clipped", ext, p.Spec.Width, p.Spec.Height))
	}

	along := p.Spec.Width
	if p.Orientation == curve.Up || p.Orientation == curve.Down {
		along = p.Spec.Height
	}
	if span := curve.SpanForDepth(p.Depth, p.LineLen); p.Mode != generator.ModeUnit && span > along {
		warnings = append(warnings, fmt.Sprintf("depth %d: span %d exceeds the canvas extent %d", p.Depth, span, along))
	}
	if p.Mode == generator.ModePen && p.Workers > 1 {
		warnings = append(warnings, "workers ignored: the pen mode is sequential")
	}
	return warnings
}

// extent returns the pixel rectangle the planned curve touches.
func extent(p generator.Plan) image.Rectangle {
	var r image.Rectangle
	first := true
	sink := curve.SinkFunc(func(a, b image.Point) {
		seg := image.Rectangle{Min: a, Max: b}.Canon()
		seg.Max = seg.Max.Add(image.Pt(1, 1))
		if first {
			r, first = seg, false
			return
		}
		r = r.Union(seg)
	})
	if err := p.Draw(sink, p.Depth, nil); err != nil {
		return image.Rectangle{}
	}
	return r
}

// Summary returns a human-readable description of a job.
func Summary(j *Job, cfg generator.Config) string {
	var b strings.Builder
	name := j.Meta.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "Job: %s\n", name)
	if j.Meta.Description != "" {
		fmt.Fprintf(&b, "%s\n", j.Meta.Description)
	}
	p, err := generator.Resolve(cfg)
	if err != nil {
		fmt.Fprintf(&b, "  invalid: %v\n", err)
		return b.String()
	}
	fmt.Fprintf(&b, "  canvas   %dx%d %s\n", p.Spec.Width, p.Spec.Height, p.Spec.Format)
	fmt.Fprintf(&b, "  curve    %s depth=%d line_len=%d heading=%s\n", p.Mode, p.Depth, p.LineLen, p.Orientation)
	fmt.Fprintf(&b, "  colours  %s on %s\n", generator.FormatColor(p.Spec.Foreground), generator.FormatColor(p.Spec.Background))
	fmt.Fprintf(&b, "  segment  %v -> %v\n", p.Segment.Start, p.Segment.End)
	fmt.Fprintf(&b, "  file     %d bytes as BMP\n", p.Spec.FileSize())
	return b.String()
}
