package curve

import (
	"errors"
	"fmt"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

// MaxDepth bounds every recursion. A depth-8 curve with unit 3 already spans
// 4^8·3 ≈ 200k pixels.
const MaxDepth = 7

// ErrDepthExceeded reports a depth outside [0, MaxDepth]. It is an
// InvalidDimension-class error: errors.Is(err, bitmap.ErrInvalidDimension)
// holds as well.
var ErrDepthExceeded = fmt.Errorf("%w: recursion depth out of range", bitmap.ErrInvalidDimension)

// CheckDepth rejects depths the generators refuse to run.
func CheckDepth(n int) error {
	if n < 0 || n > MaxDepth {
		return fmt.Errorf("%w: depth %d not in [0, %d]", ErrDepthExceeded, n, MaxDepth)
	}
	return nil
}

// IsDepthExceeded reports whether err came from CheckDepth.
func IsDepthExceeded(err error) bool {
	return errors.Is(err, ErrDepthExceeded)
}

// SpanForDepth is the length of a straight segment that subdivides into
// leaves of exactly lineLen after n levels: 4^n · lineLen.
func SpanForDepth(n, lineLen int) int {
	return lineLen << (2 * n)
}

// MaxDepthForWidth returns the smallest n in [1, MaxDepth] with
// 4^n · lineLen > width, or MaxDepth when no such n exists.
func MaxDepthForWidth(width, lineLen int) int {
	if lineLen <= 0 {
		return MaxDepth
	}
	for n := 1; n < MaxDepth; n++ {
		if SpanForDepth(n, lineLen) > width {
			return n
		}
	}
	return MaxDepth
}
