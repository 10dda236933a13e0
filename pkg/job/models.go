// Package job loads render jobs: YAML (or JSON) files that describe a canvas
// and a curve, with dimensions written as arithmetic expressions.
package job

// Expr is an arithmetic expression evaluated against the curve parameters,
// e.g. "4 ** depth * line_len + 32". Plain numbers are valid expressions.
type Expr string

// Job is the top-level structure of a job file.
type Job struct {
	Meta   Meta   `yaml:"meta"`
	Canvas Canvas `yaml:"canvas"`
	Curve  Curve  `yaml:"curve"`
	Render Render `yaml:"render"`
}

// Meta holds job metadata.
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Canvas defines the raster. Empty dimensions are fitted to the curve.
type Canvas struct {
	Width      Expr   `yaml:"width"`
	Height     Expr   `yaml:"height"`
	Format     string `yaml:"format"`     // "rgb24" or "mono1"
	Background string `yaml:"background"` // "#rrggbb" or "random"
	Foreground string `yaml:"foreground"`
}

// Curve defines the fractal.
type Curve struct {
	Mode        string `yaml:"mode"` // "depth", "unit" or "pen"
	Depth       Expr   `yaml:"depth"`
	LineLen     Expr   `yaml:"line_len"`
	Orientation string `yaml:"orientation"`
	Start       []Expr `yaml:"start"` // [x, y]; may use width and height
}

// Render holds output options.
type Render struct {
	Output       string `yaml:"output"`
	Workers      int    `yaml:"workers"`
	Caption      bool   `yaml:"caption"`
	FontPath     string `yaml:"font_path"`
	FrameSeconds int    `yaml:"frame_seconds"`
}
