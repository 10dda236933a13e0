package instrument

import (
	"bytes"
	"encoding/csv"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/xob0t/GoSausage/pkg/bitmap"
	"github.com/xob0t/GoSausage/pkg/curve"
)

func TestMeasureCounts(t *testing.T) {
	for _, mode := range []Mode{ModeDepth, ModeUnit, ModePen} {
		t.Run(string(mode), func(t *testing.T) {
			samples, err := Measure([]int{0, 1, 2, 3}, 3, mode)
			if err != nil {
				t.Fatal(err)
			}
			calls := int64(0)
			leaves := int64(1)
			for i, s := range samples {
				calls += leaves
				if s.Depth != i || s.Span != 3<<(2*i) {
					t.Errorf("sample %d: depth %d span %d", i, s.Depth, s.Span)
				}
				if s.Counts.Leaves != leaves || s.Counts.Lines != leaves {
					t.Errorf("depth %d: %d leaves, %d lines, want %d", i, s.Counts.Leaves, s.Counts.Lines, leaves)
				}
				if s.Counts.Calls != calls {
					t.Errorf("depth %d: %d calls, want %d", i, s.Counts.Calls, calls)
				}
				if s.Counts.Pixels != 4*leaves {
					t.Errorf("depth %d: %d pixel writes, want %d", i, s.Counts.Pixels, 4*leaves)
				}
				if s.Counts.MaxLevel != int64(i) {
					t.Errorf("depth %d: max level %d", i, s.Counts.MaxLevel)
				}
				leaves *= 8
			}
		})
	}
}

func TestMeasureRejects(t *testing.T) {
	if _, err := Measure([]int{8}, 3, ModeDepth); !curve.IsDepthExceeded(err) {
		t.Errorf("got %v", err)
	}
	if _, err := Measure([]int{1}, 0, ModeDepth); err == nil {
		t.Error("zero line length accepted")
	}
	if _, err := Measure([]int{1}, 3, Mode("spiral")); err == nil {
		t.Error("unknown mode accepted")
	}
}

// The counter must observe without changing what gets drawn.
func TestCounterLeavesGeometryAlone(t *testing.T) {
	spec := bitmap.ImageSpec{Width: 220, Height: 120, Format: bitmap.Mono1,
		Background: color.RGBA{A: 0xff}, Foreground: color.RGBA{0xff, 0xff, 0xff, 0xff}}
	plain, _ := bitmap.New(spec)
	counted, _ := bitmap.New(spec)
	seg := curve.Segment{Start: image.Pt(5, 60), End: image.Pt(5+curve.SpanForDepth(3, 3), 60)}

	if err := curve.New(plain).Depth(seg, 3); err != nil {
		t.Fatal(err)
	}
	var c Counter
	g := &curve.Generator{Sink: c.Sink(counted), Observer: &c}
	if err := g.ParallelDepth(seg, 3, 4); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain.Pix(), counted.Pix()) {
		t.Error("instrumented render differs")
	}
	if got := c.Snapshot().Leaves; got != 512 {
		t.Errorf("%d leaves, want 512", got)
	}
	c.Reset()
	if c.Snapshot() != (Counts{}) {
		t.Error("Reset left counts behind")
	}
}

func TestWriters(t *testing.T) {
	samples, err := Measure([]int{1, 2}, 2, ModeDepth)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "depth" || rows[2][3] != "64" {
		t.Errorf("csv rows %v", rows)
	}

	buf.Reset()
	if err := WriteTable(&buf, samples); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "leaves") {
		t.Errorf("table:\n%s", buf.String())
	}
}
