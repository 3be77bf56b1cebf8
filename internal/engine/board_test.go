package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, w, h, visible int) *Board {
	t.Helper()
	b, err := NewBoard(w, h, visible)
	require.NoError(t, err)
	return b
}

// rows renders the bottom n rows of b, bottom row last.
func rows(b *Board, n int) []string {
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	return lines[len(lines)-n:]
}

func TestNewBoardRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name          string
		w, h, visible int
	}{
		{"narrow", 3, 22, 20},
		{"short", 10, 3, 3},
		{"no visible rows", 10, 22, 0},
		{"visible above height", 10, 22, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(tt.w, tt.h, tt.visible)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestIsValidBounds(t *testing.T) {
	b := mustBoard(t, DefaultWidth, DefaultHeight, DefaultVisible)

	tee := NewPiece(ShapeT, Vec{X: 1, Y: 0})
	assert.True(t, b.IsValid(tee, Vec{}))
	assert.False(t, b.IsValid(tee, Left), "left wall")
	assert.False(t, b.IsValid(tee, Down), "floor")
	assert.True(t, b.IsValid(NewPiece(ShapeT, Vec{X: 8, Y: 20}), Vec{}))
	assert.False(t, b.IsValid(NewPiece(ShapeT, Vec{X: 8, Y: 21}), Vec{}), "ceiling")
	assert.False(t, b.IsValid(NewPiece(ShapeT, Vec{X: 9, Y: 5}), Vec{}), "right wall")

	b.Set(2, 0, ShapeZ)
	assert.False(t, b.IsValid(tee, Vec{}))
}

func TestOutOfRangeReadsFilled(t *testing.T) {
	b := mustBoard(t, 10, 22, 20)
	assert.True(t, b.Occupied(-1, 0))
	assert.True(t, b.Occupied(0, 22))
	assert.False(t, b.Occupied(0, 21))

	b.Set(-1, 0, ShapeI)
	b.SetFixed(10, 0)
	assert.Equal(t, make([]bool, 10*22), b.Occupancy().Filled, "out of range writes must be ignored")
}

func TestClearFullLinesKeepsFixedCells(t *testing.T) {
	b := mustBoard(t, 10, 6, 5)
	for x := 0; x < 9; x++ {
		b.Set(x, 0, ShapeI)
	}
	b.SetFixed(9, 0)
	b.SetFixed(9, 1)
	b.Set(3, 1, ShapeT)
	b.Set(5, 2, ShapeS)

	require.Equal(t, 1, b.ClearFullLines())

	want := []string{
		"..........",
		"..........",
		"..........",
		"..........",
		".....S...#",
		"...T.....#",
	}
	if diff := cmp.Diff(want, rows(b, 6)); diff != "" {
		t.Errorf("board after clear (-want +got):\n%s", diff)
	}
	assert.True(t, b.At(9, 0).Fixed)
	assert.True(t, b.At(9, 1).Fixed)
}

func TestClearFullLinesCascades(t *testing.T) {
	b := mustBoard(t, 4, 6, 5)
	for x := 0; x < 4; x++ {
		b.Set(x, 0, ShapeO)
		b.Set(x, 1, ShapeO)
		b.Set(x, 3, ShapeL)
	}
	b.Set(1, 2, ShapeJ)

	assert.Equal(t, 3, b.ClearFullLines())
	assert.Equal(t, []string{"....", ".J.."}, rows(b, 2))
}

func TestClearFullLinesKeepsBlocksOnScenery(t *testing.T) {
	b := mustBoard(t, 4, 6, 5)
	for x := 0; x < 4; x++ {
		b.Set(x, 0, ShapeI)
	}
	b.SetFixed(0, 1)
	b.Set(0, 2, ShapeT) // rests on the fixed cell
	b.Set(0, 3, ShapeT) // rests on the held block
	b.Set(2, 1, ShapeS)
	b.Set(2, 3, ShapeZ)

	require.Equal(t, 1, b.ClearFullLines())

	want := []string{
		"....",
		"....",
		"T...",
		"T.Z.",
		"#...",
		"..S.",
	}
	if diff := cmp.Diff(want, rows(b, 6)); diff != "" {
		t.Errorf("board after clear (-want +got):\n%s", diff)
	}
	assert.Equal(t, Cell{Filled: true, Shape: ShapeT}, b.At(0, 2))
	assert.Equal(t, Cell{Filled: true, Shape: ShapeT}, b.At(0, 3))
}

func TestClearFullLinesPreservesBlockCount(t *testing.T) {
	b := mustBoard(t, 4, 8, 6)
	for x := 0; x < 4; x++ {
		b.Set(x, 0, ShapeI)
		b.Set(x, 3, ShapeL)
	}
	b.SetFixed(1, 1)
	b.SetFixed(3, 2)
	b.Set(1, 2, ShapeJ)
	b.Set(3, 4, ShapeO)
	b.Set(0, 5, ShapeZ)

	filled := func() (blocks, scenery int) {
		for y := 0; y < b.Height(); y++ {
			for x := 0; x < b.Width(); x++ {
				switch c := b.At(x, y); {
				case c.Fixed:
					scenery++
				case c.Filled:
					blocks++
				}
			}
		}
		return blocks, scenery
	}

	blocks, scenery := filled()
	require.Equal(t, 11, blocks)
	require.Equal(t, 2, scenery)

	// The second line only fills once the first clear drops the L row onto the J.
	require.Equal(t, 2, b.ClearFullLines())

	want := []string{
		"....",
		"....",
		"....",
		"...O",
		"Z..L",
		".L.#",
		".#..",
		"....",
	}
	if diff := cmp.Diff(want, rows(b, 8)); diff != "" {
		t.Errorf("board after clears (-want +got):\n%s", diff)
	}

	blocks, scenery = filled()
	assert.Equal(t, 11-4-3, blocks, "only cells of cleared rows are removed")
	assert.Equal(t, 2, scenery)
}

func TestSceneryRowIsNotALine(t *testing.T) {
	b := mustBoard(t, 4, 6, 5)
	for x := 0; x < 4; x++ {
		b.SetFixed(x, 0)
	}
	b.Set(1, 1, ShapeT)

	assert.Equal(t, 0, b.ClearFullLines())
	assert.Equal(t, []string{".T..", "####"}, rows(b, 2))
}

func TestPlaceDropsCellsAboveTop(t *testing.T) {
	b := mustBoard(t, 10, 22, 20)
	// I facing east at pivot y=21 covers rows 22..19.
	p := Piece{Shape: ShapeI, Orientation: East, Pivot: Vec{X: 0, Y: 21}}
	b.Place(p)

	filled := 0
	for _, v := range b.Occupancy().Filled {
		if v {
			filled++
		}
	}
	assert.Equal(t, 3, filled)
	assert.Equal(t, ShapeI, b.At(1, 21).Shape)
}

func TestResetClearsScenery(t *testing.T) {
	b := mustBoard(t, 10, 22, 20)
	b.SetFixed(0, 0)
	b.Set(5, 5, ShapeZ)
	b.Reset()
	assert.False(t, b.Occupied(0, 0))
	assert.False(t, b.Occupied(5, 5))
}

func TestOccupancyIsIndependent(t *testing.T) {
	b := mustBoard(t, 10, 22, 20)
	occ := b.Occupancy()
	occ.Fill(3, 3)
	assert.True(t, occ.At(3, 3))
	assert.False(t, b.Occupied(3, 3))

	c := b.Clone()
	c.Set(1, 1, ShapeT)
	assert.False(t, b.Occupied(1, 1))
}

func TestLayoutsRotateClockwise(t *testing.T) {
	want := [4]Vec{{0, 1}, {0, 0}, {0, -1}, {1, 0}}
	if diff := cmp.Diff(want, Layout(ShapeT, East)); diff != "" {
		t.Errorf("T east layout (-want +got):\n%s", diff)
	}
	for _, s := range AllShapes {
		for o := North; o <= West; o++ {
			seen := map[Vec]bool{}
			for _, c := range Layout(s, o) {
				seen[c] = true
			}
			assert.Len(t, seen, 4, "%v %v has overlapping cells", s, o)
		}
	}
	assert.Equal(t, Layout(ShapeO, North), Layout(ShapeO, West))
}

func TestParseSequence(t *testing.T) {
	got, err := ParseSequence("O t, i")
	require.NoError(t, err)
	assert.Equal(t, []Shape{ShapeO, ShapeT, ShapeI}, got)

	_, err = ParseSequence("OX")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOrientationRotateWraps(t *testing.T) {
	assert.Equal(t, North, West.Rotate(CW))
	assert.Equal(t, West, North.Rotate(CCW))
	assert.Equal(t, South, East.Rotate(CW))
}
