package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/engine"
)

// ApplyLayout writes a drill layout onto the bottom of b. Rows are listed top
// to bottom: '#' is a fixed wall, 'x' a clearable block, anything else empty.
func ApplyLayout(b *engine.Board, rows []string) error {
	if len(rows) > b.Visible() {
		return fmt.Errorf("tetris: layout has %d rows, board shows %d: %w", len(rows), b.Visible(), engine.ErrInvalidConfig)
	}
	for i, row := range rows {
		if len(row) != b.Width() {
			return fmt.Errorf("tetris: layout row %d is %d wide, board is %d: %w", i, len(row), b.Width(), engine.ErrInvalidConfig)
		}
		y := len(rows) - 1 - i
		for x, ch := range row {
			switch ch {
			case '#':
				b.SetFixed(x, y)
			case 'x', 'X':
				b.Set(x, y, engine.Garbage)
			}
		}
	}
	return nil
}
