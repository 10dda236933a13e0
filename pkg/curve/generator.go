// Package curve generates the Minkowski sausage: every straight segment is
// replaced by 8 segments a quarter as long, bending out and back across the
// original line, until a depth or a minimum length is reached. The leaves are
// emitted as straight lines to a Sink.
package curve

import (
	"fmt"
	"image"
)

// Observer is notified of the recursion without taking part in it. Enter is
// called once per generator invocation with its level (0 at the top) and
// Leaf once per emitted line. Implementations used with the Parallel methods
// must be safe for concurrent use.
type Observer interface {
	Enter(level int)
	Leaf(s Segment)
}

// Generator is the endpoint-driven formulation. It carries no state between
// calls besides its collaborators, so sibling sub-segments are independent.
type Generator struct {
	Sink     Sink
	Observer Observer // optional
}

// New returns a generator drawing to s.
func New(s Sink) *Generator {
	return &Generator{Sink: s}
}

// leafFunc decides whether seg, reached at level, is drawn as-is.
type leafFunc func(seg Segment, level int) bool

func byDepth(n int) leafFunc {
	return func(_ Segment, level int) bool { return level >= n }
}

func byMinUnit(lineLen int) leafFunc {
	return func(seg Segment, level int) bool {
		if level >= MaxDepth || seg.Len() <= lineLen {
			return true
		}
		// A span shorter than 4 has a zero quarter and cannot shrink.
		return seg.End.Sub(seg.Start).Div(4) == image.Point{}
	}
}

// Depth draws seg subdivided exactly n times, emitting 8^n leaves.
func (g *Generator) Depth(seg Segment, n int) error {
	if err := CheckDepth(n); err != nil {
		return err
	}
	g.walk(seg, 0, byDepth(n))
	return nil
}

// MinUnit subdivides seg until a segment is no longer than lineLen. The
// recursion never goes deeper than MaxDepth.
func (g *Generator) MinUnit(seg Segment, lineLen int) error {
	if lineLen < 1 {
		return fmt.Errorf("minimum unit %d must be positive", lineLen)
	}
	g.walk(seg, 0, byMinUnit(lineLen))
	return nil
}

func (g *Generator) walk(seg Segment, level int, leaf leafFunc) {
	if g.Observer != nil {
		g.Observer.Enter(level)
	}
	if leaf(seg, level) {
		if g.Observer != nil {
			g.Observer.Leaf(seg)
		}
		g.Sink.Line(seg.Start, seg.End)
		return
	}
	for _, sub := range Subdivide(seg) {
		g.walk(sub, level+1, leaf)
	}
}
