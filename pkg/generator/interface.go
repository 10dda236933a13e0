package generator

import "io"

// Generator is the interface for output formats.
type Generator interface {
	// Generate renders cfg and writes the result to the file at output.
	Generate(output string, cfg Config) error
	// Encode renders cfg and writes the result to w.
	Encode(w io.Writer, cfg Config) error
}
