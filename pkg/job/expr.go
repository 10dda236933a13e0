package job

import (
	"fmt"
	"math"
	"strings"

	"github.com/knetic/govaluate"

	"github.com/xob0t/GoSausage/pkg/bitmap"
	"github.com/xob0t/GoSausage/pkg/curve"
)

// Functions defines functions usable in job expressions.
func Functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		// max_depth(width, line_len): deepest useful depth for a canvas width.
		"max_depth": func(args ...interface{}) (interface{}, error) {
			v, err := intArgs("max_depth", args, 2)
			if err != nil {
				return nil, err
			}
			return float64(curve.MaxDepthForWidth(v[0], v[1])), nil
		},
		// row_stride(width, bpp): padded BMP row length in bytes.
		"row_stride": func(args ...interface{}) (interface{}, error) {
			v, err := intArgs("row_stride", args, 2)
			if err != nil {
				return nil, err
			}
			switch v[1] {
			case 1:
				return float64(bitmap.RowStride(v[0], bitmap.Mono1)), nil
			case 24:
				return float64(bitmap.RowStride(v[0], bitmap.RGB24)), nil
			default:
				return nil, fmt.Errorf("row_stride: unsupported bits per pixel %d", v[1])
			}
		},
	}
}

// intArgs converts govaluate's float64 arguments to ints.
func intArgs(name string, args []interface{}, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", name, n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d must be numeric", name, i+1)
		}
		out[i] = int(f)
	}
	return out, nil
}

// Eval evaluates e with the given parameters. An empty expression yields
// def. The result must be a finite number and is truncated to an int.
func (e Expr) Eval(params map[string]interface{}, def int) (int, error) {
	src := strings.TrimSpace(string(e))
	if src == "" {
		return def, nil
	}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, Functions())
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", src, err)
	}
	res, err := expr.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", src, err)
	}
	f, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: result %v is not a number", src, res)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("evaluate %q: result %v out of range", src, f)
	}
	return int(f), nil
}
