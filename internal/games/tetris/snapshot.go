package tetris

import "github.com/vovakirdan/blockfall/internal/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateCleared  GameStateType = "cleared"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Score   int
	Lines   int
	Pieces  int
	Retries int
	State   GameStateType

	HasActive bool
	Active    engine.Piece
	Held      int // shape index, -1 when empty
	Upcoming  []engine.Shape
	Cells     []int // per cell: 0 empty, 1 + shape index, -1 fixed
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateCleared
	case g.over:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:    g.tick,
		Mode:    g.ID(),
		Retries: g.retries,
		State:   state,
		Held:    -1,
	}
	if g.ctrl == nil {
		return snap
	}

	st := g.State()
	snap.Score = st.Score
	snap.Lines = st.Lines
	snap.Pieces = st.Pieces
	snap.Active, snap.HasActive = g.ctrl.Active()
	if s, ok := g.ctrl.Held(); ok {
		snap.Held = int(s)
	}
	snap.Upcoming = g.ctrl.Upcoming(g.cfg.Preview)

	for y := 0; y < g.board.Height(); y++ {
		for x := 0; x < g.board.Width(); x++ {
			c := g.board.At(x, y)
			switch {
			case c.Fixed:
				snap.Cells = append(snap.Cells, -1)
			case c.Filled:
				snap.Cells = append(snap.Cells, 1+int(c.Shape))
			default:
				snap.Cells = append(snap.Cells, 0)
			}
		}
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)              //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lines)              //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Pieces)             //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Retries)            //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Active.Shape)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Active.Pivot.X)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Active.Pivot.Y)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Active.Orientation) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Held+1)             //#nosec G115 -- hash computation

	for _, s := range snap.Upcoming {
		h = h*31 + uint64(s) //#nosec G115 -- hash computation
	}
	for _, c := range snap.Cells {
		h = h*31 + uint64(c+1) //#nosec G115 -- hash computation
	}
	return h
}
