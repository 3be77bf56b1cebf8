package engine

// Piece is the pose of a tetromino: shape, orientation and pivot position.
// It is a plain value, so copies can be mutated speculatively and discarded.
type Piece struct {
	Shape       Shape
	Orientation Orientation
	Pivot       Vec
}

// NewPiece returns a North-facing piece at pivot.
func NewPiece(s Shape, pivot Vec) Piece {
	return Piece{Shape: s, Orientation: North, Pivot: pivot}
}

// Cells returns the absolute grid cells of the piece.
func (p Piece) Cells() [4]Vec {
	cells := Layout(p.Shape, p.Orientation)
	for i := range cells {
		cells[i] = cells[i].Add(p.Pivot)
	}
	return cells
}

// Moved returns a copy shifted by delta.
func (p Piece) Moved(delta Vec) Piece {
	p.Pivot = p.Pivot.Add(delta)
	return p
}

// Rotated returns a copy turned one step in dir about its pivot, without kicks.
func (p Piece) Rotated(dir Direction) Piece {
	p.Orientation = p.Orientation.Rotate(dir)
	return p
}

// Top returns the highest row occupied by the piece.
func (p Piece) Top() int {
	top := p.Pivot.Y
	for i, c := range p.Cells() {
		if i == 0 || c.Y > top {
			top = c.Y
		}
	}
	return top
}
