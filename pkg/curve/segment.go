package curve

import "image"

// Segment is a directed run from Start to End.
type Segment struct {
	Start, End image.Point
}

// Seg is shorthand for Segment{image.Pt(x0, y0), image.Pt(x1, y1)}.
func Seg(x0, y0, x1, y1 int) Segment {
	return Segment{image.Pt(x0, y0), image.Pt(x1, y1)}
}

// Len is the Chebyshev length, which equals the Euclidean length for the
// axis-aligned segments the curve produces.
func (s Segment) Len() int {
	d := s.End.Sub(s.Start)
	return max(abs(d.X), abs(d.Y))
}

// Subdivide replaces s with the 8 Minkowski sub-segments
// start→A→B→C→M→D→E→F→end, where M is the midpoint. A quarter of s is taken
// once, so the pieces always chain from s.Start to s.End even when the
// length is not a multiple of 4.
func Subdivide(s Segment) [8]Segment {
	q := s.End.Sub(s.Start).Div(4)
	p := turn(q)

	a := s.Start.Add(q)
	b := a.Add(p)
	c := b.Add(q)
	m := c.Sub(p)
	d := m.Sub(p)
	e := d.Add(q)
	f := e.Add(p)

	return [8]Segment{
		{s.Start, a}, {a, b}, {b, c}, {c, m},
		{m, d}, {d, e}, {e, f}, {f, s.End},
	}
}

// Sink receives the straight runs of a curve. *bitmap.Canvas is a Sink.
type Sink interface {
	Line(a, b image.Point)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(a, b image.Point)

// Line calls f(a, b).
func (f SinkFunc) Line(a, b image.Point) { f(a, b) }

// Discard is a Sink that drops every line.
var Discard Sink = SinkFunc(func(a, b image.Point) {})

// Recorder is a Sink that keeps every line in order.
type Recorder struct {
	Segments []Segment
}

// Line appends the segment.
func (r *Recorder) Line(a, b image.Point) {
	r.Segments = append(r.Segments, Segment{a, b})
}

// Replay sends the recorded segments to s in order.
func (r *Recorder) Replay(s Sink) {
	for _, seg := range r.Segments {
		s.Line(seg.Start, seg.End)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
