package tetris

import (
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// Scorer awards points for locks. It is registered as a lock listener.
type Scorer struct {
	cfg   config.ScoringConfig
	score int
	lines int
	combo int // consecutive clearing locks, 0 when the last lock cleared nothing

	last Award
}

// Award describes the points granted by the most recent lock.
type Award struct {
	Points int
	Lines  int
	Spin   bool
	Combo  int
}

// NewScorer creates a scorer.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	if cfg.LinesPerLevel <= 0 {
		cfg.LinesPerLevel = 10
	}
	return &Scorer{cfg: cfg}
}

// Level starts at 1 and rises every LinesPerLevel lines.
func (s *Scorer) Level() int {
	return 1 + s.lines/s.cfg.LinesPerLevel
}

// Score returns the total points.
func (s *Scorer) Score() int { return s.score }

// Lines returns the lines cleared.
func (s *Scorer) Lines() int { return s.lines }

// Last returns the award of the most recent lock.
func (s *Scorer) Last() Award { return s.last }

// AddHardDrop awards points for cells travelled by a hard drop.
func (s *Scorer) AddHardDrop(cells int) {
	s.score += cells * s.cfg.HardDropCell
}

// OnPieceLocked scores line clears, T-spins and combos at the level the
// piece was locked on.
func (s *Scorer) OnPieceLocked(info engine.LockInfo) {
	level := s.Level()
	spin := info.Spin && info.Shape == engine.ShapeT

	points := 0
	switch {
	case spin:
		points = pick(s.cfg.SpinClear, info.Lines)
	case info.Lines > 0:
		points = pick(s.cfg.LineClear, info.Lines-1)
	}
	points *= level

	if info.Lines > 0 {
		s.combo++
		if s.combo > 1 {
			points += s.cfg.ComboBonus * (s.combo - 1) * level
		}
	} else {
		s.combo = 0
	}

	s.score += points
	s.lines += info.Lines
	s.last = Award{Points: points, Lines: info.Lines, Spin: spin, Combo: s.combo}
}

// pick returns table[i], clamping i to the table.
func pick(table []int, i int) int {
	if len(table) == 0 {
		return 0
	}
	return table[min(max(i, 0), len(table)-1)]
}
