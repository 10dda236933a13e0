package job

// Example returns a sample job file.
func Example() string {
	return `# Minkowski sausage render job.
meta:
  name: sausage-5
  description: Depth-5 sausage on a 1-bit canvas with a 16px margin.

canvas:
  # Expressions may use depth, line_len and span (= 4 ** depth * line_len).
  width: span + 2 * 16
  height: span * 2 / 3 + 2 * 16
  format: mono1
  background: "#000000"
  foreground: "#ffffff"

curve:
  mode: depth          # depth | unit | pen
  depth: 5
  line_len: 3
  orientation: right   # right | left | up | down
  start: ["16", "height / 2"]

render:
  output: sausage.bmp  # .bmp | .png | .avi
  workers: 4
  caption: false
  frame_seconds: 1
`
}
