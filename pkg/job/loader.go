// loader.go - Read job files and resolve them into render configs.
package job

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/xob0t/GoSausage/pkg/curve"
	"github.com/xob0t/GoSausage/pkg/generator"
)

// Load reads a .yaml, .yml or .json job file. Unknown keys are reported as
// warnings and otherwise ignored.
func Load(path string) (*Job, []string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil, fmt.Errorf("unsupported job file %q: use .yaml, .yml or .json", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read job: %w", err)
	}
	j, warnings, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return j, warnings, nil
}

// Parse decodes a job document. JSON is accepted as a subset of YAML.
func Parse(data []byte) (*Job, []string, error) {
	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, nil, err
	}

	var warnings []string
	var strict Job
	if err := yaml.UnmarshalStrict(data, &strict); err != nil {
		if te, ok := err.(*yaml.TypeError); ok {
			for _, msg := range te.Errors {
				warnings = append(warnings, "ignored: "+msg)
			}
		} else {
			warnings = append(warnings, "ignored: "+err.Error())
		}
	}
	return &j, warnings, nil
}

// Config evaluates the job's expressions and returns the render config.
//
// Evaluation order: line_len, then depth (may use line_len), then width and
// height (may use depth, line_len and span = 4**depth * line_len), then
// start (may additionally use width and height).
func (j *Job) Config() (generator.Config, error) {
	cfg := generator.Config{
		Format:       j.Canvas.Format,
		Background:   j.Canvas.Background,
		Foreground:   j.Canvas.Foreground,
		Mode:         j.Curve.Mode,
		Orientation:  j.Curve.Orientation,
		Workers:      j.Render.Workers,
		Caption:      j.Render.Caption,
		FontPath:     j.Render.FontPath,
		FrameSeconds: j.Render.FrameSeconds,
	}

	params := map[string]interface{}{}
	var err error
	if cfg.LineLen, err = j.Curve.LineLen.Eval(params, 3); err != nil {
		return cfg, fmt.Errorf("curve.line_len: %w", err)
	}
	params["line_len"] = float64(cfg.LineLen)

	if cfg.Depth, err = j.Curve.Depth.Eval(params, 0); err != nil {
		return cfg, fmt.Errorf("curve.depth: %w", err)
	}
	if err := curve.CheckDepth(cfg.Depth); err != nil {
		return cfg, fmt.Errorf("curve.depth: %w", err)
	}
	params["depth"] = float64(cfg.Depth)
	params["span"] = float64(curve.SpanForDepth(cfg.Depth, cfg.LineLen))

	if cfg.Width, err = j.Canvas.Width.Eval(params, 0); err != nil {
		return cfg, fmt.Errorf("canvas.width: %w", err)
	}
	if cfg.Height, err = j.Canvas.Height.Eval(params, 0); err != nil {
		return cfg, fmt.Errorf("canvas.height: %w", err)
	}

	if len(j.Curve.Start) == 0 {
		return cfg, nil
	}
	if len(j.Curve.Start) != 2 {
		return cfg, fmt.Errorf("curve.start: want [x, y], got %d values", len(j.Curve.Start))
	}
	// Start may refer to fitted dimensions, so resolve those first.
	plan, err := generator.Resolve(cfg)
	if err != nil {
		return cfg, err
	}
	params["width"] = float64(plan.Spec.Width)
	params["height"] = float64(plan.Spec.Height)
	var start image.Point
	if start.X, err = j.Curve.Start[0].Eval(params, 0); err != nil {
		return cfg, fmt.Errorf("curve.start[0]: %w", err)
	}
	if start.Y, err = j.Curve.Start[1].Eval(params, 0); err != nil {
		return cfg, fmt.Errorf("curve.start[1]: %w", err)
	}
	cfg.Start = &start
	return cfg, nil
}
