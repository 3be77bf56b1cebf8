package tetris

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// newGame writes doc as the config file and starts a game in mode m.
func newGame(t *testing.T, m Mode, doc string) *Game {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	SetConfigPath(path)
	t.Cleanup(func() {
		SetConfigPath("")
		SetDifficultyPreset("")
		SetCPUDifficulty("")
	})

	g := New(m)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	require.NoError(t, g.Err())
	return g
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRegisteredModes(t *testing.T) {
	ids := map[Mode]string{
		ModeMarathon: "tetris",
		ModeSprint:   "tetris_sprint",
		ModePractice: "tetris_practice",
		ModeRen:      "tetris_ren",
		ModeCPU:      "tetris_cpu",
	}
	for m, id := range ids {
		g := New(m)
		assert.Equal(t, id, g.ID())
		assert.NotEmpty(t, g.Title())
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(t, ModeMarathon, "")
	g2 := newGame(t, ModeMarathon, "")

	for i := 0; i < 600; i++ {
		var in core.InputFrame
		switch i % 40 {
		case 5:
			in = press(core.ActionLeft)
		case 10:
			in = press(core.ActionRotateCW)
		case 20:
			in = press(core.ActionHardDrop)
		case 30:
			in = press(core.ActionHold)
		}
		g1.Step(in)
		g2.Step(in)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	assert.Equal(t, s1.Hash(), s2.Hash())
	assert.Equal(t, s1.Pieces, s2.Pieces)
	assert.Positive(t, s1.Pieces)
}

func TestPracticeTSpinDoubleClearsDrill(t *testing.T) {
	g := newGame(t, ModePractice, "")

	var notes []string
	step := func(in core.InputFrame) core.StepResult {
		res := g.Step(in)
		notes = append(notes, res.Events...)
		return res
	}

	// The scripted O fills the ledge beside the slot.
	step(press(core.ActionHardDrop))
	// T spawns, turns west and lines up over the slot.
	step(press(core.ActionRotateCCW))
	step(press(core.ActionLeft))
	step(press(core.ActionLeft))
	for range 150 {
		step(press(core.ActionDown))
	}
	p, ok := g.ctrl.Active()
	require.True(t, ok)
	assert.Equal(t, engine.Vec{X: 2, Y: 1}, p.Pivot)

	step(press(core.ActionRotateCCW))
	res := step(press(core.ActionHardDrop))

	assert.True(t, res.State.GameOver)
	assert.True(t, res.State.Won)
	assert.Equal(t, 2, res.State.Lines)
	assert.Contains(t, notes, "T-SPIN DOUBLE")
	// 18 cells of O hard drop at 2 each, then a level 1 T-spin double.
	assert.Equal(t, 36+1200, res.State.Score)
	assert.Equal(t, StateCleared, g.Snapshot().State)
}

func TestStrictPracticeRestartsOnMiss(t *testing.T) {
	g := newGame(t, ModePractice, "practice: {strict: true}")

	g.Step(press(core.ActionHardDrop))
	res := g.Step(press(core.ActionHardDrop)) // T lands on top, no lines

	assert.False(t, res.State.GameOver)
	assert.Contains(t, res.Events, "RETRY")

	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Retries)
	assert.Equal(t, 0, snap.Pieces)
	assert.Equal(t, uint64(0), snap.Tick)
	// The layout is back and the O ledge is gone.
	assert.True(t, g.board.At(3, 2).Filled)
	assert.False(t, g.board.At(4, 2).Filled)
}

func TestLenientPracticeKeepsGoing(t *testing.T) {
	g := newGame(t, ModePractice, "")

	g.Step(press(core.ActionHardDrop))
	res := g.Step(press(core.ActionHardDrop))

	assert.False(t, res.State.GameOver)
	assert.NotContains(t, res.Events, "RETRY")
	assert.Equal(t, 2, res.State.Pieces)
}

func TestMarathonTopsOut(t *testing.T) {
	g := newGame(t, ModeMarathon, "")

	var res core.StepResult
	for i := 0; i < 500 && !res.State.GameOver; i++ {
		res = g.Step(press(core.ActionHardDrop))
	}
	assert.True(t, res.State.GameOver)
	assert.False(t, res.State.Won)
	assert.Equal(t, StateGameOver, g.Snapshot().State)

	// Steps after the end change nothing.
	before := g.Snapshot()
	g.Step(press(core.ActionHardDrop))
	after := g.Snapshot()
	assert.Equal(t, before.Hash(), after.Hash())
}

func TestPauseStopsTheClock(t *testing.T) {
	g := newGame(t, ModeMarathon, "")
	g.Step(core.InputFrame{})
	g.Step(press(core.ActionPause))
	assert.True(t, g.State().Paused)

	tick := g.Snapshot().Tick
	for range 30 {
		g.Step(press(core.ActionHardDrop))
	}
	assert.Equal(t, tick, g.Snapshot().Tick)
	assert.Equal(t, 0, g.State().Pieces)

	g.Step(press(core.ActionPause))
	assert.False(t, g.State().Paused)
}

func TestSoftDropLatch(t *testing.T) {
	g := newGame(t, ModeMarathon, "gravity: {fall_speed: 0.0001}\ndifficulty: {enabled: false}")
	g.Step(core.InputFrame{})
	start, ok := g.ctrl.Active()
	require.True(t, ok)

	// One press keeps soft drop held for the latch (120ms, about 7 ticks).
	g.Step(press(core.ActionDown))
	for range 20 {
		g.Step(core.InputFrame{})
	}
	p, ok := g.ctrl.Active()
	require.True(t, ok)
	fell := start.Pivot.Y - p.Pivot.Y
	assert.GreaterOrEqual(t, fell, 2)
	assert.Less(t, fell, 5)
}

func TestCPUModePlays(t *testing.T) {
	SetCPUDifficulty("hard")
	g := newGame(t, ModeCPU, "")

	for range 60 * 10 {
		g.Step(core.InputFrame{})
	}
	assert.Equal(t, "hard", g.cfg.CPU.Difficulty)
	assert.Greater(t, g.State().Pieces, 3)
}

func TestRenDrillUsesFixedWalls(t *testing.T) {
	g := newGame(t, ModeRen, "")
	for x := 3; x < 10; x++ {
		assert.True(t, g.board.At(x, 0).Fixed, "column %d should be wall", x)
	}
	assert.Equal(t, engine.Garbage, g.board.At(0, 1).Shape)
	assert.Contains(t, strings.Join(g.judge.HUD(0), " "), "REN 0")
}

func TestBadConfigFallsBackToDefaults(t *testing.T) {
	g := newGame(t, ModeSprint, "board: [")
	assert.Equal(t, 10, g.board.Width())
	assert.Equal(t, 40, g.cfg.Sprint.TargetLines)
}

func TestThemeOverridesPalette(t *testing.T) {
	g := newGame(t, ModeMarathon, "theme: {T: bright_magenta, I: no_such_color}")
	assert.Equal(t, core.ColorBrightMagenta, g.palette[engine.ShapeT])
	assert.Equal(t, core.ColorCyan, g.palette[engine.ShapeI])
}

func TestRender(t *testing.T) {
	g := newGame(t, ModePractice, "")
	g.Step(core.InputFrame{})

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"HOLD", "NEXT", "SCORE", "GOAL", "▒▒"} {
		assert.Contains(t, out, want)
	}

	g.Step(press(core.ActionPause))
	g.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")

	small := core.NewScreen(30, 10)
	g.Render(small)
	assert.Contains(t, small.String(), "Window too small")
}
