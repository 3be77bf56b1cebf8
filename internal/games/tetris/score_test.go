package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/engine"
)

func TestScorer(t *testing.T) {
	s := NewScorer(config.DefaultTetrisConfig().Scoring)

	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeI, Lines: 4})
	assert.Equal(t, 800, s.Score())
	assert.Equal(t, Award{Points: 800, Lines: 4, Combo: 1}, s.Last())

	// Second clear in a row earns the combo bonus.
	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeL, Lines: 1})
	assert.Equal(t, 800+100+50, s.Score())

	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeO})
	assert.Equal(t, 0, s.Last().Combo)
	assert.Equal(t, 0, s.Last().Points)

	s.AddHardDrop(10)
	assert.Equal(t, 970, s.Score())
	assert.Equal(t, 5, s.Lines())
	assert.Equal(t, 1, s.Level())
}

func TestScorerSpinsAndLevels(t *testing.T) {
	s := NewScorer(config.ScoringConfig{
		LinesPerLevel: 2,
		LineClear:     []int{100, 300, 500, 800},
		SpinClear:     []int{400, 800, 1200, 1600},
	})

	// Non-T spins score as plain clears.
	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeS, Lines: 2, Spin: true})
	require.Equal(t, 300, s.Score())
	assert.False(t, s.Last().Spin)
	assert.Equal(t, 2, s.Level())

	// A zero-line T-spin still scores, at level 2.
	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeT, Spin: true})
	assert.Equal(t, 300+800, s.Score())
	assert.True(t, s.Last().Spin)
}

func TestScorerDefaultsLinesPerLevel(t *testing.T) {
	s := NewScorer(config.ScoringConfig{})
	s.OnPieceLocked(engine.LockInfo{Shape: engine.ShapeI, Lines: 4})
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, s.Level())
}
