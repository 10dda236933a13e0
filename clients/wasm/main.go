//go:build js && wasm

// GoSausage WASM: client-side renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o gosausage.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/xob0t/GoSausage/pkg/curve"
	"github.com/xob0t/GoSausage/pkg/generator"
)

func main() {
	fmt.Println("GoSausage WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goRender", js.FuncOf(render))
	js.Global().Set("goMaxDepth", js.FuncOf(maxDepth))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goRender(configJSON, ext) renders and returns base64 file bytes. ext is
// "bmp", "png" or "avi".
func render(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need configJSON, ext")
	}

	var cfg generator.Config
	if s := args[0].String(); s != "" && s != "null" {
		if err := json.Unmarshal([]byte(s), &cfg); err != nil {
			return js.ValueOf("error: parse config: " + err.Error())
		}
	}
	cfg.FontPath = "" // no filesystem; the embedded font is always used

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, args[1].String(), cfg); err != nil {
		return js.ValueOf("error: render: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goMaxDepth(width, lineLen) returns the smallest depth whose span exceeds
// width, capped at the recursion limit.
func maxDepth(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need width, lineLen")
	}
	return js.ValueOf(curve.MaxDepthForWidth(args[0].Int(), args[1].Int()))
}
