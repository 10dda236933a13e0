package curve

import (
	"fmt"
	"image"
	"strings"
)

// Orientation is the heading of a pen-driven run. Directions are on screen:
// Up decreases y because image coordinates grow downward.
type Orientation uint8

const (
	Right Orientation = iota
	Left
	Up
	Down
)

var orientationNames = [...]string{Right: "right", Left: "left", Up: "up", Down: "down"}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// ParseOrientation is the inverse of String.
func ParseOrientation(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range orientationNames {
		if s == name {
			return Orientation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// Delta is the unit step for o.
func (o Orientation) Delta() image.Point {
	switch o {
	case Right:
		return image.Pt(1, 0)
	case Left:
		return image.Pt(-1, 0)
	case Up:
		return image.Pt(0, -1)
	default:
		return image.Pt(0, 1)
	}
}

// expansion is the Minkowski template for each heading: forward, turn,
// forward, back, back, forward, turn, forward. The turn is a
// counter-clockwise quarter turn on screen.
var expansion = [4][8]Orientation{
	Right: {Right, Up, Right, Down, Down, Right, Up, Right},
	Left:  {Left, Down, Left, Up, Up, Left, Down, Left},
	Up:    {Up, Left, Up, Right, Right, Up, Left, Up},
	Down:  {Down, Right, Down, Left, Left, Down, Right, Down},
}

// Expansion returns the 8 sub-orientations that replace o one level down.
func (o Orientation) Expansion() [8]Orientation {
	return expansion[o&3]
}

// turn rotates v a quarter turn counter-clockwise on screen (y down).
func turn(v image.Point) image.Point {
	return image.Pt(v.Y, -v.X)
}
