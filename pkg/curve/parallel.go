package curve

import (
	"fmt"
	"runtime"
	"sync"
)

// ParallelDepth is Depth with the 8 top-level sub-segments generated on up to
// workers goroutines. Each goroutine records its leaves and the recordings
// are replayed into the Sink in template order, so the Sink sees exactly the
// serial sequence and needs no locking.
func (g *Generator) ParallelDepth(seg Segment, n, workers int) error {
	if err := CheckDepth(n); err != nil {
		return err
	}
	g.fanOut(seg, byDepth(n), workers)
	return nil
}

// ParallelMinUnit is MinUnit split the same way as ParallelDepth.
func (g *Generator) ParallelMinUnit(seg Segment, lineLen, workers int) error {
	if lineLen < 1 {
		return fmt.Errorf("minimum unit %d must be positive", lineLen)
	}
	g.fanOut(seg, byMinUnit(lineLen), workers)
	return nil
}

func (g *Generator) fanOut(seg Segment, leaf leafFunc, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || leaf(seg, 0) {
		g.walk(seg, 0, leaf)
		return
	}
	if g.Observer != nil {
		g.Observer.Enter(0)
	}

	subs := Subdivide(seg)
	var recs [len(subs)]Recorder
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			child := Generator{Sink: &recs[i], Observer: g.Observer}
			child.walk(sub, 1, leaf)
		}()
	}
	wg.Wait()

	for i := range recs {
		recs[i].Replay(g.Sink)
	}
}
