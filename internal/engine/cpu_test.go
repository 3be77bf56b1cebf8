package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	occ := Occupancy{Width: 4, Height: 4, Filled: make([]bool, 16)}
	occ.Fill(0, 0)
	occ.Fill(0, 1)
	occ.Fill(1, 1) // hole at (1, 0)
	occ.Fill(3, 0)

	want := Features{Lines: 0, Holes: 1, AggHeight: 5, Bumpiness: 3, MaxHeight: 2}
	if diff := cmp.Diff(want, Measure(occ)); diff != "" {
		t.Errorf("Measure (-want +got):\n%s", diff)
	}

	for x := 0; x < 4; x++ {
		occ.Fill(x, 0)
	}
	assert.Equal(t, 1, Measure(occ).Lines)
}

func TestWeightsScore(t *testing.T) {
	w := Weights{Lines: 2, Holes: 1, AggHeight: 0.5, Bumpiness: 0.25, MaxHeight: 1}
	f := Features{Lines: 1, Holes: 2, AggHeight: 4, Bumpiness: 4, MaxHeight: 3}
	assert.InDelta(t, 2-2-2-1-3, w.Score(f), 1e-9)
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "Normal": Normal, " HARD ": Hard, "": Normal} {
		got, err := ParseDifficulty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDifficulty("brutal")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProfilesScaleWithDifficulty(t *testing.T) {
	easy, normal, hard := ProfileFor(Easy), ProfileFor(Normal), ProfileFor(Hard)
	assert.Greater(t, easy.Think, normal.Think)
	assert.Greater(t, normal.Think, hard.Think)
	assert.Greater(t, easy.TopK, hard.TopK)
	assert.Equal(t, 1, hard.TopK)
	assert.Less(t, easy.Weights.Holes, hard.Weights.Holes)
}

// wellBoard fills rows [0, depth) except column well.
func wellBoard(t *testing.T, depth int, well ...int) *Board {
	t.Helper()
	b := mustBoard(t, DefaultWidth, DefaultHeight, DefaultVisible)
	skip := map[int]bool{}
	for _, x := range well {
		skip[x] = true
	}
	for y := 0; y < depth; y++ {
		for x := 0; x < b.Width(); x++ {
			if !skip[x] {
				b.Set(x, y, ShapeJ)
			}
		}
	}
	return b
}

func TestSearchFindsTetrisWell(t *testing.T) {
	b := wellBoard(t, 4, 9)
	before := b.String()

	cands := Search(b, NewPiece(ShapeI, Vec{X: 4, Y: 20}), ProfileFor(Hard))
	require.NotEmpty(t, cands)

	best := cands[0]
	assert.Equal(t, 4, best.Features.Lines)
	for _, c := range best.Landing.Cells() {
		assert.Equal(t, 9, c.X)
	}
	for i := 1; i < len(cands); i++ {
		assert.GreaterOrEqual(t, cands[i-1].Score, cands[i].Score)
	}
	assert.Equal(t, before, b.String(), "search must not touch the board")
}

func TestSearchFillsTwoWideGapWithO(t *testing.T) {
	b := wellBoard(t, 1, 8, 9)

	cands := Search(b, NewPiece(ShapeO, Vec{X: 4, Y: 20}), ProfileFor(Hard))
	require.NotEmpty(t, cands)

	best := cands[0]
	assert.Equal(t, 8, best.Landing.Pivot.X)
	assert.Equal(t, 0, best.Landing.Pivot.Y)
	assert.Equal(t, 1, best.Features.Lines)
	for _, c := range cands {
		if c.Landing.Pivot.X != 8 {
			assert.Less(t, c.Score, best.Score)
		}
	}
}

func TestEasyStrideSamplesFewerColumns(t *testing.T) {
	b := mustBoard(t, DefaultWidth, DefaultHeight, DefaultVisible)
	p := NewPiece(ShapeT, Vec{X: 4, Y: 20})
	assert.Len(t, Search(b, p, ProfileFor(Hard)), 40)
	assert.Len(t, Search(b, p, ProfileFor(Easy)), 20)
}

func newCPUController(t *testing.T, b *Board, seq string) *Controller {
	t.Helper()
	shapes, err := ParseSequence(seq)
	require.NoError(t, err)
	rules := DefaultRules()
	rules.FallSpeed = 0
	c, err := NewController(b, mustRandomizer(t, 5, RandomizerOptions{Sequence: shapes}), rules)
	require.NoError(t, err)
	return c
}

func TestComputerPlayerClearsTetris(t *testing.T) {
	b := wellBoard(t, 4, 9)
	c := newCPUController(t, b, "I")
	cpu, err := NewComputerPlayer(c, Hard, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c.Advance(tick, Input{})
		cpu.Advance(tick)
		if pieces, _ := c.Stats(); pieces > 0 {
			break
		}
	}

	pieces, lines := c.Stats()
	require.Equal(t, 1, pieces)
	assert.Equal(t, 4, lines)
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			assert.False(t, b.Occupied(x, y), "(%d, %d) should be empty", x, y)
		}
	}
}

func TestComputerPlayerWaitsWhilePaused(t *testing.T) {
	b := mustBoard(t, DefaultWidth, DefaultHeight, DefaultVisible)
	c := newCPUController(t, b, "T")
	cpu, err := NewComputerPlayer(c, Hard, 1)
	require.NoError(t, err)

	c.Advance(0, Input{})
	c.SetPaused(true)
	before, _ := c.Active()
	for i := 0; i < 50; i++ {
		cpu.Advance(time.Second)
	}
	after, _ := c.Active()
	assert.Equal(t, before, after)
	_, planned := cpu.Plan()
	assert.False(t, planned)

	c.SetPaused(false)
	for i := 0; i < 100; i++ {
		cpu.Advance(tick)
		if pieces, _ := c.Stats(); pieces > 0 {
			break
		}
	}
	pieces, _ := c.Stats()
	assert.Equal(t, 1, pieces)
}

func TestComputerPlayerIsDeterministic(t *testing.T) {
	run := func() string {
		b := mustBoard(t, DefaultWidth, DefaultHeight, DefaultVisible)
		c := newCPUController(t, b, "")
		cpu, err := NewComputerPlayer(c, Easy, 99)
		require.NoError(t, err)
		for i := 0; i < 600; i++ {
			c.Advance(tick, Input{})
			cpu.Advance(tick)
		}
		return b.String()
	}
	assert.Equal(t, run(), run())
}

func TestNewComputerPlayerNeedsController(t *testing.T) {
	_, err := NewComputerPlayer(nil, Normal, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
