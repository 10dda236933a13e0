package instrument

import (
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/xob0t/GoSausage/pkg/curve"
)

// Mode selects the generator formulation being measured.
type Mode string

const (
	ModeDepth Mode = "depth" // endpoint-driven, fixed depth
	ModeUnit  Mode = "unit"  // endpoint-driven, minimum unit
	ModePen   Mode = "pen"   // orientation-driven
)

// Sample is the measurement of one depth.
type Sample struct {
	Depth   int
	Span    int
	Counts  Counts
	Elapsed time.Duration
}

// Measure runs the generator once per depth on a straight horizontal segment
// of SpanForDepth(depth, lineLen) and discards the output.
func Measure(depths []int, lineLen int, mode Mode) ([]Sample, error) {
	if lineLen < 1 {
		return nil, fmt.Errorf("line length %d must be positive", lineLen)
	}
	samples := make([]Sample, 0, len(depths))
	for _, n := range depths {
		if err := curve.CheckDepth(n); err != nil {
			return nil, err
		}
		span := curve.SpanForDepth(n, lineLen)
		var c Counter
		start := time.Now()
		if err := run(&c, n, span, lineLen, mode); err != nil {
			return nil, err
		}
		samples = append(samples, Sample{
			Depth:   n,
			Span:    span,
			Counts:  c.Snapshot(),
			Elapsed: time.Since(start),
		})
	}
	return samples, nil
}

func run(c *Counter, n, span, lineLen int, mode Mode) error {
	sink := c.Sink(curve.Discard)
	seg := curve.Segment{End: image.Pt(span, 0)}
	switch mode {
	case ModeDepth, "":
		g := &curve.Generator{Sink: sink, Observer: c}
		return g.Depth(seg, n)
	case ModeUnit:
		g := &curve.Generator{Sink: sink, Observer: c}
		return g.MinUnit(seg, lineLen)
	case ModePen:
		p := &curve.Pen{LineLen: lineLen, Sink: sink, Observer: c}
		return p.Walk(n, curve.Right)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

var header = []string{"depth", "span", "calls", "leaves", "lines", "pixels", "elapsed_ns"}

func (s Sample) record() []string {
	return []string{
		strconv.Itoa(s.Depth),
		strconv.Itoa(s.Span),
		strconv.FormatInt(s.Counts.Calls, 10),
		strconv.FormatInt(s.Counts.Leaves, 10),
		strconv.FormatInt(s.Counts.Lines, 10),
		strconv.FormatInt(s.Counts.Pixels, 10),
		strconv.FormatInt(s.Elapsed.Nanoseconds(), 10),
	}
}

// WriteCSV writes one header row and one row per sample.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write(s.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes the samples as an aligned text table.
func WriteTable(w io.Writer, samples []Sample) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "depth\tspan\tcalls\tleaves\tlines\tpixels\telapsed\t")
	for _, s := range samples {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%v\t\n",
			s.Depth, s.Span, s.Counts.Calls, s.Counts.Leaves, s.Counts.Lines, s.Counts.Pixels,
			s.Elapsed.Round(time.Microsecond))
	}
	return tw.Flush()
}
