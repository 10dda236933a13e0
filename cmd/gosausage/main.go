// GoSausage: Minkowski sausage curves as exact BMP files.
//
// Usage:
//
//	gosausage -o <file> [--job <path>] [options]
//	gosausage depth -w <px> [--line-len 3]
//	gosausage bench [--depths 0-6] [--csv <file>]
//	gosausage check --job <path>
//	gosausage serve [--port 8080]
//	gosausage init
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xob0t/GoSausage/clients/server"
	"github.com/xob0t/GoSausage/pkg/curve"
	"github.com/xob0t/GoSausage/pkg/generator"
	"github.com/xob0t/GoSausage/pkg/instrument"
	"github.com/xob0t/GoSausage/pkg/job"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "depth":
		err = runDepth(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "serve":
		setupLogging(hasFlag(os.Args[2:], "-v"))
		err = server.RunServe(os.Args[2:])
	case "help", "-help", "--help":
		printUsage()
	case "render":
		err = run(os.Args[2:])
	default:
		// Default: render mode (all flags on root).
		err = run(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	generator.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || a == "-"+name {
			return true
		}
	}
	return false
}

func run(args []string) error {
	fs := flag.NewFlagSet("gosausage", flag.ExitOnError)

	var (
		output   string
		jobPath  string
		start    string
		verbose  bool
		flagCfg  generator.Config
		depthSet bool
	)

	fs.StringVar(&output, "o", "", "Output file path (.bmp, .png or .avi)")
	fs.StringVar(&output, "output", "", "Output file path (.bmp, .png or .avi)")
	fs.StringVar(&jobPath, "job", "", "Path to a YAML or JSON job file")
	fs.IntVar(&flagCfg.Width, "w", 0, "Width in pixels (default: fits the curve)")
	fs.IntVar(&flagCfg.Width, "width", 0, "Width in pixels (default: fits the curve)")
	fs.IntVar(&flagCfg.Height, "h", 0, "Height in pixels (default: fits the curve)")
	fs.IntVar(&flagCfg.Height, "height", 0, "Height in pixels (default: fits the curve)")
	fs.StringVar(&flagCfg.Format, "format", "", "Pixel format: rgb24 or mono1")
	fs.StringVar(&flagCfg.Background, "bg", "", "Background color: hex or 'random'")
	fs.StringVar(&flagCfg.Foreground, "fg", "", "Foreground color: hex or 'random'")
	fs.StringVar(&flagCfg.Mode, "mode", "", "Generator: depth, unit or pen")
	fs.IntVar(&flagCfg.Depth, "depth", 0, "Recursion depth, 0..7")
	fs.IntVar(&flagCfg.LineLen, "line-len", 0, "Leaf length in pixels (default: 3)")
	fs.StringVar(&flagCfg.Orientation, "orientation", "", "Heading: right, left, up or down")
	fs.StringVar(&start, "start", "", "Segment start as x,y (default: centred)")
	fs.IntVar(&flagCfg.Workers, "workers", 0, "Concurrent sub-segments (0: sequential)")
	fs.BoolVar(&flagCfg.Caption, "caption", false, "Label PNG/AVI output with the parameters")
	fs.StringVar(&flagCfg.FontPath, "font", "", "Caption font (.ttf)")
	fs.IntVar(&flagCfg.FrameSeconds, "frame-seconds", 0, "Seconds per depth (AVI only, default: 1)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(verbose)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "depth" {
			depthSet = true
		}
	})

	if start != "" {
		p, err := parsePoint(start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		flagCfg.Start = &p
	}

	cfg := flagCfg
	if jobPath != "" {
		j, warnings, err := job.Load(jobPath)
		if err != nil {
			return fmt.Errorf("load job: %w", err)
		}
		printWarnings(warnings)
		base, err := j.Config()
		if err != nil {
			return fmt.Errorf("job %s: %w", jobPath, err)
		}
		cfg = job.Merge(base, flagCfg, depthSet)
		if output == "" {
			output = j.Render.Output
		}
	}

	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}
	printWarnings(job.Validate(cfg))

	fmt.Printf("Generating: %s\n", output)
	if err := generator.Generate(output, cfg); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(x, y), nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

func runDepth(args []string) error {
	fs := flag.NewFlagSet("depth", flag.ExitOnError)
	var width, lineLen int
	fs.IntVar(&width, "w", 0, "Canvas width in pixels")
	fs.IntVar(&width, "width", 0, "Canvas width in pixels")
	fs.IntVar(&lineLen, "line-len", 3, "Leaf length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if width <= 0 || lineLen <= 0 {
		return fmt.Errorf("--width and --line-len must be positive")
	}

	n := curve.MaxDepthForWidth(width, lineLen)
	fmt.Printf("depth %d (span %d for width %d, line length %d)\n",
		n, curve.SpanForDepth(n, lineLen), width, lineLen)
	return nil
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var (
		depths  string
		lineLen int
		mode    string
		csvPath string
	)
	fs.StringVar(&depths, "depths", "0-6", "Depths to measure: a range (0-6) or a list (1,3,5)")
	fs.IntVar(&lineLen, "line-len", 3, "Leaf length in pixels")
	fs.StringVar(&mode, "mode", "depth", "Generator: depth, unit or pen")
	fs.StringVar(&csvPath, "csv", "", "Write CSV to this file ('-' for stdout) instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ns, err := parseDepths(depths)
	if err != nil {
		return fmt.Errorf("--depths: %w", err)
	}
	samples, err := instrument.Measure(ns, lineLen, instrument.Mode(mode))
	if err != nil {
		return err
	}

	switch csvPath {
	case "":
		return instrument.WriteTable(os.Stdout, samples)
	case "-":
		return instrument.WriteCSV(os.Stdout, samples)
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	if err := instrument.WriteCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", csvPath)
	return nil
}

// parseDepths accepts "a-b" or a comma-separated list.
func parseDepths(s string) ([]int, error) {
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, err
		}
		b, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, err
		}
		if a > b {
			return nil, fmt.Errorf("empty range %q", s)
		}
		out := make([]int, 0, b-a+1)
		for n := a; n <= b; n++ {
			out = append(out, n)
		}
		return out, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var jobPath string
	fs.StringVar(&jobPath, "job", "", "Path to a YAML or JSON job file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if jobPath == "" {
		return fmt.Errorf("--job is required for check command")
	}

	j, warnings, err := job.Load(jobPath)
	if err != nil {
		return err
	}
	cfg, err := j.Config()
	if err != nil {
		return err
	}
	fmt.Print(job.Summary(j, cfg))
	printWarnings(append(warnings, job.Validate(cfg)...))
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var jobOut string
	fs.StringVar(&jobOut, "job", "sausage.yaml", "Output path for sample job")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(jobOut, []byte(job.Example()), 0644); err != nil {
		return fmt.Errorf("write job: %w", err)
	}

	fmt.Printf("Created: %s\n", jobOut)
	fmt.Printf("Run: gosausage --job %s\n", jobOut)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`GoSausage - Minkowski Sausage Curves as BMP (Pure Go)

USAGE:
    gosausage -o <file> [options]
    gosausage -o <file> --job <path> [options]
    gosausage depth -w <px> [--line-len 3]
    gosausage bench [--depths 0-6] [--mode depth] [--csv <file>]
    gosausage check --job <path>
    gosausage serve [--port 8080] [--open]
    gosausage init [--job sausage.yaml]

RENDER:
    -o, --output <path>     Output file (.bmp, .png or .avi)
    --job <path>            YAML/JSON job file; flags override its values
    -w, --width <px>        Width in pixels (default: fits the curve)
    -h, --height <px>       Height in pixels (default: fits the curve)
    --format <fmt>          rgb24 (default) or mono1
    --bg, --fg <hex>        Colors: hex or 'random' (default: white on black)
    --mode <mode>           depth (default), unit or pen
    --depth <n>             Recursion depth, 0..7 (default: 0)
    --line-len <px>         Leaf length (default: 3)
    --orientation <dir>     right (default), left, up or down
    --start <x,y>           Segment start (default: centred)
    --workers <n>           Generate sub-segments concurrently
    --caption               Label PNG/AVI output
    --font <path>           Caption font (default: Go Regular)
    --frame-seconds <n>     AVI seconds per depth (default: 1)
    -v                      Verbose logging

API SERVER:
    gosausage serve [--port 8080]       Start the HTTP API

EXAMPLES:
    gosausage init
    gosausage --job sausage.yaml
    gosausage -o sausage.bmp --depth 4 --format mono1
    gosausage -o grow.avi --depth 5 --caption --frame-seconds 2
    gosausage -o unit.bmp --mode unit -w 800 --line-len 2
    gosausage depth -w 1024
    gosausage bench --depths 0-7 --csv counts.csv
`)
}
