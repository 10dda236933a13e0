package curve

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"slices"
	"sync"
	"testing"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

func pow8(n int) int { return 1 << (3 * n) }

// checkChain verifies that segs run contiguously from seg.Start to seg.End.
func checkChain(t *testing.T, seg Segment, segs []Segment) {
	t.Helper()
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	if segs[0].Start != seg.Start {
		t.Fatalf("chain starts at %v, want %v", segs[0].Start, seg.Start)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Start != segs[i-1].End {
			t.Fatalf("gap between leaf %d (%v) and %d (%v)", i-1, segs[i-1], i, segs[i])
		}
	}
	if last := segs[len(segs)-1].End; last != seg.End {
		t.Fatalf("chain ends at %v, want %v", last, seg.End)
	}
}

func TestSubdivide(t *testing.T) {
	seg := Seg(0, 0, 16, 0)
	subs := Subdivide(seg)
	want := [8]Segment{
		Seg(0, 0, 4, 0), Seg(4, 0, 4, -4), Seg(4, -4, 8, -4), Seg(8, -4, 8, 0),
		Seg(8, 0, 8, 4), Seg(8, 4, 12, 4), Seg(12, 4, 12, 0), Seg(12, 0, 16, 0),
	}
	if subs != want {
		t.Errorf("Subdivide(%v) = %v, want %v", seg, subs, want)
	}
	for _, s := range subs {
		if s.Len() != 4 {
			t.Errorf("sub-segment %v has length %d", s, s.Len())
		}
	}

	odd := Seg(3, 7, 3, 25)
	checkChain(t, odd, subs2slice(Subdivide(odd)))
}

func subs2slice(a [8]Segment) []Segment { return a[:] }

func TestDepthLeaves(t *testing.T) {
	const lineLen = 3
	for n := 0; n <= 3; n++ {
		for _, o := range []Orientation{Right, Left, Up, Down} {
			start := image.Pt(500, 500)
			seg := Segment{start, start.Add(o.Delta().Mul(SpanForDepth(n, lineLen)))}
			var rec Recorder
			if err := New(&rec).Depth(seg, n); err != nil {
				t.Fatal(err)
			}
			if len(rec.Segments) != pow8(n) {
				t.Fatalf("depth %d %v: %d leaves, want %d", n, o, len(rec.Segments), pow8(n))
			}
			checkChain(t, seg, rec.Segments)
			for _, s := range rec.Segments {
				if s.Len() != lineLen {
					t.Fatalf("depth %d: leaf %v has length %d", n, s, s.Len())
				}
				if s.Start.X != s.End.X && s.Start.Y != s.End.Y {
					t.Fatalf("leaf %v is not axis-aligned", s)
				}
			}
		}
	}
}

func TestDepthRejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, MaxDepth + 1} {
		err := New(Discard).Depth(Seg(0, 0, 10, 0), n)
		if !errors.Is(err, ErrDepthExceeded) || !errors.Is(err, bitmap.ErrInvalidDimension) {
			t.Errorf("depth %d: got %v", n, err)
		}
	}
}

func TestMinUnit(t *testing.T) {
	t.Run("matches depth", func(t *testing.T) {
		seg := Seg(0, 100, SpanForDepth(3, 3), 100)
		var a, b Recorder
		if err := New(&a).Depth(seg, 3); err != nil {
			t.Fatal(err)
		}
		if err := New(&b).MinUnit(seg, 3); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(a.Segments, b.Segments) {
			t.Error("min-unit and depth formulations differ")
		}
	})
	t.Run("uneven length", func(t *testing.T) {
		seg := Seg(0, 300, 1000, 300)
		var rec Recorder
		if err := New(&rec).MinUnit(seg, 5); err != nil {
			t.Fatal(err)
		}
		checkChain(t, seg, rec.Segments)
	})
	t.Run("too short to split", func(t *testing.T) {
		seg := Seg(0, 0, 3, 0)
		var rec Recorder
		if err := New(&rec).MinUnit(seg, 1); err != nil {
			t.Fatal(err)
		}
		if len(rec.Segments) != 1 || rec.Segments[0] != seg {
			t.Errorf("got %v", rec.Segments)
		}
	})
	t.Run("depth capped", func(t *testing.T) {
		seg := Seg(0, 0, SpanForDepth(MaxDepth+2, 1), 0)
		var obs levelObserver
		g := &Generator{Sink: Discard, Observer: &obs}
		if err := g.MinUnit(seg, 1); err != nil {
			t.Fatal(err)
		}
		if obs.maxLevel != MaxDepth || obs.leaves != pow8(MaxDepth) {
			t.Errorf("max level %d, leaves %d", obs.maxLevel, obs.leaves)
		}
	})
	if err := New(Discard).MinUnit(Seg(0, 0, 8, 0), 0); err == nil {
		t.Error("zero unit accepted")
	}
}

type levelObserver struct {
	mu       sync.Mutex
	calls    int
	leaves   int
	maxLevel int
}

func (o *levelObserver) Enter(level int) {
	o.mu.Lock()
	o.calls++
	o.maxLevel = max(o.maxLevel, level)
	o.mu.Unlock()
}

func (o *levelObserver) Leaf(Segment) {
	o.mu.Lock()
	o.leaves++
	o.mu.Unlock()
}

func monoCanvas(t *testing.T, size int) *bitmap.Canvas {
	t.Helper()
	c, err := bitmap.New(bitmap.ImageSpec{
		Width: size, Height: size, Format: bitmap.Mono1,
		Background: color.RGBA{A: 0xff}, Foreground: color.RGBA{0xff, 0xff, 0xff, 0xff},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// A depth-0 curve on a 100x100 1-bit canvas is one straight line.
func TestDepthZeroDrawsOneLine(t *testing.T) {
	c := monoCanvas(t, 100)
	if err := New(c).Depth(Seg(0, 50, 99, 50), 0); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			want := uint8(0)
			if y == 50 {
				want = 1
			}
			if got := c.Index(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}

	spec := c.Spec()
	want := 14 + 40 + spec.Format.PaletteLen() + spec.Height*bitmap.RowStride(spec.Width, spec.Format)
	data, err := c.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	fh, _, err := bitmap.ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != want || int(fh.FileSize) != want {
		t.Errorf("encoded %d bytes, file_size %d, want %d", len(data), fh.FileSize, want)
	}
}

func TestPenMatchesGenerator(t *testing.T) {
	for n := 0; n <= 3; n++ {
		for lineLen := 1; lineLen <= 3; lineLen++ {
			for _, o := range []Orientation{Right, Left, Up, Down} {
				span := SpanForDepth(n, lineLen)
				size := 3*span + 2
				start := image.Pt(span+1, span+1)

				penCanvas := monoCanvas(t, size)
				pen := &Pen{Pos: start, LineLen: lineLen, Width: size, Sink: penCanvas}
				if err := pen.Walk(n, o); err != nil {
					t.Fatal(err)
				}

				genCanvas := monoCanvas(t, size)
				end := start.Add(o.Delta().Mul(span))
				if err := New(genCanvas).Depth(Segment{start, end}, n); err != nil {
					t.Fatal(err)
				}

				if !bytes.Equal(penCanvas.Pix(), genCanvas.Pix()) {
					t.Fatalf("depth %d line %d %v: buffers differ", n, lineLen, o)
				}
				if pen.Pos != end {
					t.Fatalf("depth %d %v: pen ended at %v, want %v", n, o, pen.Pos, end)
				}
			}
		}
	}
}

func TestPenStopsAtWidth(t *testing.T) {
	var full, cut Recorder
	p := &Pen{Pos: image.Pt(0, 100), LineLen: 3, Sink: &full}
	if err := p.Walk(3, Right); err != nil {
		t.Fatal(err)
	}
	p = &Pen{Pos: image.Pt(0, 100), LineLen: 3, Width: 50, Sink: &cut}
	if err := p.Walk(3, Right); err != nil {
		t.Fatal(err)
	}
	if len(cut.Segments) == 0 || len(cut.Segments) >= len(full.Segments) {
		t.Fatalf("cut walk drew %d of %d leaves", len(cut.Segments), len(full.Segments))
	}
	if !slices.Equal(cut.Segments, full.Segments[:len(cut.Segments)]) {
		t.Error("cut walk is not a prefix of the full walk")
	}
	for _, s := range cut.Segments {
		if s.Start.X >= 50 {
			t.Errorf("leaf %v starts past the width", s)
		}
	}
}

func TestPenRejects(t *testing.T) {
	p := &Pen{LineLen: 0, Sink: Discard}
	if err := p.Walk(1, Right); err == nil {
		t.Error("zero line length accepted")
	}
	p.LineLen = 1
	if err := p.Walk(MaxDepth+1, Right); !IsDepthExceeded(err) {
		t.Errorf("got %v", err)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	seg := Seg(10, 400, 10+SpanForDepth(4, 2), 400)
	var serial Recorder
	var serialObs levelObserver
	g := &Generator{Sink: &serial, Observer: &serialObs}
	if err := g.Depth(seg, 4); err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{0, 1, 2, 3, 8, 16} {
		var par Recorder
		var obs levelObserver
		g := &Generator{Sink: &par, Observer: &obs}
		if err := g.ParallelDepth(seg, 4, workers); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(serial.Segments, par.Segments) {
			t.Errorf("workers %d: output differs from serial", workers)
		}
		if obs.calls != serialObs.calls || obs.leaves != serialObs.leaves {
			t.Errorf("workers %d: observed %d calls/%d leaves, serial %d/%d",
				workers, obs.calls, obs.leaves, serialObs.calls, serialObs.leaves)
		}
	}

	var a, b Recorder
	if err := New(&a).MinUnit(seg, 2); err != nil {
		t.Fatal(err)
	}
	if err := New(&b).ParallelMinUnit(seg, 2, 4); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Segments, b.Segments) {
		t.Error("parallel min-unit differs from serial")
	}

	var leaf Recorder
	if err := New(&leaf).ParallelDepth(seg, 0, 4); err != nil {
		t.Fatal(err)
	}
	if len(leaf.Segments) != 1 {
		t.Errorf("depth 0: %d leaves", len(leaf.Segments))
	}
}

func BenchmarkDepth(b *testing.B) {
	seg := Seg(0, 0, SpanForDepth(5, 3), 0)
	for b.Loop() {
		_ = New(Discard).Depth(seg, 5)
	}
}

func BenchmarkParallelDepth(b *testing.B) {
	seg := Seg(0, 0, SpanForDepth(5, 3), 0)
	for b.Loop() {
		_ = New(Discard).ParallelDepth(seg, 5, 0)
	}
}
