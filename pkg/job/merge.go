// merge.go - Overlay command-line overrides onto a job's config.
package job

import "github.com/xob0t/GoSausage/pkg/generator"

// Merge applies every non-zero field of over onto base. Zero values in over
// mean "not given", so a flag cannot reset a job value to zero except Depth,
// which is taken when depthSet is true.
func Merge(base, over generator.Config, depthSet bool) generator.Config {
	if over.Width > 0 {
		base.Width = over.Width
	}
	if over.Height > 0 {
		base.Height = over.Height
	}
	if over.Format != "" {
		base.Format = over.Format
	}
	if over.Background != "" {
		base.Background = over.Background
	}
	if over.Foreground != "" {
		base.Foreground = over.Foreground
	}
	if over.Mode != "" {
		base.Mode = over.Mode
	}
	if depthSet {
		base.Depth = over.Depth
	}
	if over.LineLen > 0 {
		base.LineLen = over.LineLen
	}
	if over.Orientation != "" {
		base.Orientation = over.Orientation
	}
	if over.Start != nil {
		base.Start = over.Start
	}
	if over.Workers > 0 {
		base.Workers = over.Workers
	}
	if over.Caption {
		base.Caption = true
	}
	if over.FontPath != "" {
		base.FontPath = over.FontPath
	}
	if over.FrameSeconds > 0 {
		base.FrameSeconds = over.FrameSeconds
	}
	return base
}
