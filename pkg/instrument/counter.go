// Package instrument counts the work done by the curve generators without
// touching their geometry. A Counter is attached as the generator's Observer
// and, through Counter.Sink, wrapped around the drawing target.
package instrument

import (
	"image"
	"sync/atomic"

	"github.com/xob0t/GoSausage/pkg/curve"
)

// Counter accumulates operation counts. It is safe for concurrent use.
type Counter struct {
	calls  atomic.Int64
	leaves atomic.Int64
	lines  atomic.Int64
	pixels atomic.Int64
	depth  atomic.Int64
}

// Counts is a snapshot of a Counter.
type Counts struct {
	Calls    int64 // generator invocations, leaves included
	Leaves   int64 // base cases reached
	Lines    int64 // lines handed to the sink
	Pixels   int64 // pixel writes attempted by those lines, clipped or not
	MaxLevel int64 // deepest recursion level seen
}

// Enter implements curve.Observer.
func (c *Counter) Enter(level int) {
	c.calls.Add(1)
	for {
		cur := c.depth.Load()
		if int64(level) <= cur || c.depth.CompareAndSwap(cur, int64(level)) {
			return
		}
	}
}

// Leaf implements curve.Observer.
func (c *Counter) Leaf(curve.Segment) {
	c.leaves.Add(1)
}

// Sink wraps s so that every line is counted before it is forwarded.
func (c *Counter) Sink(s curve.Sink) curve.Sink {
	return curve.SinkFunc(func(a, b image.Point) {
		c.lines.Add(1)
		c.pixels.Add(int64(linePixels(a, b)))
		s.Line(a, b)
	})
}

// Snapshot returns the current counts.
func (c *Counter) Snapshot() Counts {
	return Counts{
		Calls:    c.calls.Load(),
		Leaves:   c.leaves.Load(),
		Lines:    c.lines.Load(),
		Pixels:   c.pixels.Load(),
		MaxLevel: c.depth.Load(),
	}
}

// Reset zeroes every count.
func (c *Counter) Reset() {
	c.calls.Store(0)
	c.leaves.Store(0)
	c.lines.Store(0)
	c.pixels.Store(0)
	c.depth.Store(0)
}

// linePixels is the number of pixels on the closed line from a to b.
func linePixels(a, b image.Point) int {
	d := b.Sub(a)
	return max(abs(d.X), abs(d.Y)) + 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
