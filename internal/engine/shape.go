// Package engine implements the falling-block simulation: the board and its
// line clear, the active piece state machine with SRS rotation, the 7-bag
// randomizer with hold, and a heuristic computer player.
//
// The engine is pure logic. It never logs, never touches the terminal and
// never reads global state; owners drive it with Controller.Advance and act on
// the returned events.
package engine

import (
	"fmt"
	"strings"
)

// Vec is a grid offset or position. Y grows upward; row 0 is the floor.
type Vec struct {
	X, Y int
}

// Add returns v shifted by o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Common unit offsets.
var (
	Left  = Vec{X: -1}
	Right = Vec{X: 1}
	Up    = Vec{Y: 1}
	Down  = Vec{Y: -1}
)

// Shape identifies one of the seven tetromino classes.
// The numeric order matches the preview and hold indices used by collaborators.
type Shape int

const (
	ShapeI Shape = iota
	ShapeJ
	ShapeL
	ShapeO
	ShapeS
	ShapeT
	ShapeZ
)

// ShapeCount is the number of tetromino classes.
const ShapeCount = 7

// Garbage owns locked blocks that no piece placed, such as preset drill
// layouts. It is not a valid piece shape.
const Garbage Shape = ShapeCount

// AllShapes lists every shape in index order.
var AllShapes = []Shape{ShapeI, ShapeJ, ShapeL, ShapeO, ShapeS, ShapeT, ShapeZ}

var shapeLetters = "IJLOSTZ"

// String returns the shape letter.
func (s Shape) String() string {
	if s == Garbage {
		return "x"
	}
	if !s.Valid() {
		return "?"
	}
	return string(shapeLetters[s])
}

// Valid reports whether s is one of the seven classes.
func (s Shape) Valid() bool {
	return s >= 0 && s < ShapeCount
}

// ParseShape converts a letter (case-insensitive) to a Shape.
func ParseShape(r rune) (Shape, bool) {
	i := strings.IndexRune(shapeLetters, r)
	if i < 0 {
		i = strings.IndexRune(strings.ToLower(shapeLetters), r)
	}
	if i < 0 {
		return 0, false
	}
	return Shape(i), true
}

// ParseSequence converts a string such as "OT" into shapes.
// Spaces and commas are ignored.
func ParseSequence(s string) ([]Shape, error) {
	out := make([]Shape, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == ',' {
			continue
		}
		shape, ok := ParseShape(r)
		if !ok {
			return nil, fmt.Errorf("engine: unknown shape %q in sequence %q: %w", r, s, ErrInvalidConfig)
		}
		out = append(out, shape)
	}
	return out, nil
}

// Orientation is the rotation state: North, East, South, West (clockwise).
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
)

func (o Orientation) String() string {
	switch o {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Direction is a rotation direction.
type Direction int

const (
	CW  Direction = 1
	CCW Direction = -1
)

// Rotate returns the orientation reached by one step in dir.
func (o Orientation) Rotate(dir Direction) Orientation {
	if dir > 0 {
		return (o + 1) & 3
	}
	return (o + 3) & 3
}

// layouts[shape][orientation] holds the four cell offsets relative to the pivot.
var layouts [ShapeCount][4][4]Vec

func init() {
	north := map[Shape][4]Vec{
		ShapeJ: {{-1, 1}, {-1, 0}, {0, 0}, {1, 0}},
		ShapeL: {{1, 1}, {-1, 0}, {0, 0}, {1, 0}},
		ShapeS: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		ShapeT: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
		ShapeZ: {{-1, 1}, {0, 1}, {0, 0}, {1, 0}},
	}
	for shape, cells := range north {
		for o := range 4 {
			layouts[shape][o] = cells
			// Clockwise quarter turn about the pivot: (x, y) -> (y, -x).
			for i, c := range cells {
				cells[i] = Vec{X: c.Y, Y: -c.X}
			}
		}
	}

	// I rotates about a point between cells, so its states are tabulated.
	layouts[ShapeI] = [4][4]Vec{
		{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		{{1, 1}, {1, 0}, {1, -1}, {1, -2}},
		{{-1, -1}, {0, -1}, {1, -1}, {2, -1}},
		{{0, 1}, {0, 0}, {0, -1}, {0, -2}},
	}

	o := [4]Vec{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	layouts[ShapeO] = [4][4]Vec{o, o, o, o}
}

// Layout returns the pivot-relative cells of shape s in orientation o.
func Layout(s Shape, o Orientation) [4]Vec {
	return layouts[s][o&3]
}
