package curve

import (
	"fmt"
	"image"
)

// Pen is the orientation-driven formulation: a cursor that walks fixed runs
// of LineLen pixels. It produces the same lines as Generator.Depth on the
// segment from its start to start + SpanForDepth(n, LineLen) in the walking
// direction.
//
// A Pen is stateful and must not be shared between goroutines.
type Pen struct {
	Pos      image.Point
	LineLen  int
	Width    int // walks stop once Pos.X >= Width; 0 disables the check
	Sink     Sink
	Observer Observer // optional
}

// Walk draws a depth-n curve heading o from the current position and leaves
// the pen at its far end.
func (p *Pen) Walk(n int, o Orientation) error {
	if err := CheckDepth(n); err != nil {
		return err
	}
	if p.LineLen < 1 {
		return fmt.Errorf("line length %d must be positive", p.LineLen)
	}
	p.walk(n, o, 0)
	return nil
}

func (p *Pen) walk(n int, o Orientation, level int) {
	if p.Width > 0 && p.Pos.X >= p.Width {
		return
	}
	if p.Observer != nil {
		p.Observer.Enter(level)
	}
	if n <= 0 {
		end := p.Pos.Add(o.Delta().Mul(p.LineLen))
		if p.Observer != nil {
			p.Observer.Leaf(Segment{p.Pos, end})
		}
		p.Sink.Line(p.Pos, end)
		p.Pos = end
		return
	}
	for _, sub := range o.Expansion() {
		p.walk(n-1, sub, level+1)
	}
}
