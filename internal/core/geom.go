// Package core provides fundamental types shared by games and the platform:
// input frames, the colored screen buffer and layout geometry. It has no
// external dependencies (especially no Bubble Tea) to keep game logic pure
// and testable.
package core

// Rect is a screen-space rectangle used to lay out panels.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// CenteredRect returns a w x h rectangle centered in a screen of sw x sh,
// clamped to the top-left corner when the screen is too small.
func CenteredRect(sw, sh, w, h int) Rect {
	return Rect{X: max((sw-w)/2, 0), Y: max((sh-h)/2, 0), W: w, H: h}
}
