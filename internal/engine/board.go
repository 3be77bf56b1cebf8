package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the engine is set up with unusable geometry or rules.
var ErrInvalidConfig = errors.New("invalid engine configuration")

// Standard playfield dimensions.
const (
	DefaultWidth   = 10
	DefaultHeight  = 22
	DefaultVisible = 20
)

// Cell is one square of the grid.
type Cell struct {
	Filled bool
	Fixed  bool  // scenery: never cleared, never shifted
	Shape  Shape // owner of a locked block, meaningless for fixed or empty cells
}

// Board is the occupancy grid. Rows [visible, height) are the hidden spawn buffer.
type Board struct {
	width   int
	height  int
	visible int
	cells   []Cell
}

// NewBoard creates an empty board.
func NewBoard(width, height, visible int) (*Board, error) {
	if width < 4 || height < 4 {
		return nil, fmt.Errorf("engine: board %dx%d is too small: %w", width, height, ErrInvalidConfig)
	}
	if visible <= 0 || visible > height {
		return nil, fmt.Errorf("engine: visible height %d outside 1..%d: %w", visible, height, ErrInvalidConfig)
	}
	return &Board{
		width:   width,
		height:  height,
		visible: visible,
		cells:   make([]Cell, width*height),
	}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the total number of rows including the hidden buffer.
func (b *Board) Height() int { return b.height }

// Visible returns the number of visible rows.
func (b *Board) Visible() int { return b.visible }

// InBounds reports whether (x, y) lies on the grid.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the cell at (x, y). Out-of-range coordinates read as a filled cell.
func (b *Board) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		return Cell{Filled: true}
	}
	return b.cells[y*b.width+x]
}

// Occupied reports whether (x, y) is filled or out of range.
func (b *Board) Occupied(x, y int) bool {
	return b.At(x, y).Filled
}

// Set writes a locked block owned by s at (x, y). Out-of-range writes are ignored.
func (b *Board) Set(x, y int, s Shape) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Filled: true, Shape: s}
}

// SetFixed marks (x, y) as immovable scenery.
func (b *Board) SetFixed(x, y int) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Filled: true, Fixed: true}
}

// IsValid reports whether every cell of p shifted by delta is on the grid and empty.
func (b *Board) IsValid(p Piece, delta Vec) bool {
	for _, c := range p.Cells() {
		c = c.Add(delta)
		if b.Occupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Place writes the cells of p into the grid. Cells at or above the total height
// are dropped.
func (b *Board) Place(p Piece) {
	for _, c := range p.Cells() {
		if c.Y >= b.height {
			continue
		}
		b.Set(c.X, c.Y, p.Shape)
	}
}

// ClearFullLines removes every full row, compacts the rows above it and returns
// the number of rows removed. Fixed cells stay where they are.
func (b *Board) ClearFullLines() int {
	cleared := 0
	for y := 0; y < b.height; y++ {
		if !b.rowFull(y) {
			continue
		}
		b.clearRow(y)
		b.shiftDownFrom(y + 1)
		cleared++
		y-- // the row that slid into y may be full as well
	}
	return cleared
}

// rowFull reports whether row y is filled and has at least one clearable cell.
// A row of scenery alone never counts as a line.
func (b *Board) rowFull(y int) bool {
	clearable := false
	for x := 0; x < b.width; x++ {
		c := b.cells[y*b.width+x]
		if !c.Filled {
			return false
		}
		clearable = clearable || !c.Fixed
	}
	return clearable
}

func (b *Board) clearRow(y int) {
	for x := 0; x < b.width; x++ {
		i := y*b.width + x
		if !b.cells[i].Fixed {
			b.cells[i] = Cell{}
		}
	}
}

// shiftDownFrom moves every locked block in rows [from, height) down one row.
// Only filled non-fixed cells move, and only into an empty cell, so a block
// resting on a fixed cell (or on a block held by one) stays where it is.
func (b *Board) shiftDownFrom(from int) {
	for y := from; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			src := y*b.width + x
			dst := src - b.width
			if c := b.cells[src]; !c.Filled || c.Fixed || b.cells[dst].Filled {
				continue
			}
			b.cells[dst] = b.cells[src]
			b.cells[src] = Cell{}
		}
	}
}

// Reset empties every cell, scenery included.
func (b *Board) Reset() {
	clear(b.cells)
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.cells = append([]Cell(nil), b.cells...)
	return &c
}

// Occupancy is a private snapshot of which cells are filled, indexed [y*width+x].
type Occupancy struct {
	Width, Height int
	Filled        []bool
}

// Occupancy returns a snapshot that can be modified freely.
func (b *Board) Occupancy() Occupancy {
	occ := Occupancy{Width: b.width, Height: b.height, Filled: make([]bool, len(b.cells))}
	for i, c := range b.cells {
		occ.Filled[i] = c.Filled
	}
	return occ
}

// At reports whether (x, y) is filled; out of range reads as empty.
func (o Occupancy) At(x, y int) bool {
	if x < 0 || x >= o.Width || y < 0 || y >= o.Height {
		return false
	}
	return o.Filled[y*o.Width+x]
}

// Fill marks (x, y) as filled when it is in range.
func (o Occupancy) Fill(x, y int) {
	if x < 0 || x >= o.Width || y < 0 || y >= o.Height {
		return
	}
	o.Filled[y*o.Width+x] = true
}

// String draws the visible rows top to bottom, for debugging and test failures.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.width+1)*b.height)
	for y := b.height - 1; y >= 0; y-- {
		for x := 0; x < b.width; x++ {
			c := b.At(x, y)
			switch {
			case c.Fixed:
				buf = append(buf, '#')
			case c.Filled:
				buf = append(buf, c.Shape.String()[0])
			default:
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
