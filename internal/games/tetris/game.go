// Package tetris hosts the blockfall modes on top of the engine: marathon,
// the 40 line sprint, technique and REN drills, and a computer player to
// watch. Each mode is a registry.Game.
package tetris

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode selects the rules and goal of a game.
type Mode int

const (
	ModeMarathon Mode = iota // endless, speeds up with lines, ends on top out
	ModeSprint               // race to the target line count
	ModePractice             // spin technique drill on a preset layout
	ModeRen                  // combo drill in a narrow well
	ModeCPU                  // computer player
)

var modeInfo = map[Mode]struct{ id, alias, title string }{
	ModeMarathon: {"tetris", "marathon", "Blockfall Marathon"},
	ModeSprint:   {"tetris_sprint", "sprint", "40 Lines Sprint"},
	ModePractice: {"tetris_practice", "practice", "Technique Practice"},
	ModeRen:      {"tetris_ren", "ren", "REN Drill"},
	ModeCPU:      {"tetris_cpu", "cpu", "CPU Watch"},
}

const noticeDuration = 1500 * time.Millisecond

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// cpuDifficulty overrides the configured computer player profile when set.
var cpuDifficulty string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetCPUDifficulty overrides the computer player profile (easy, normal, hard).
func SetCPUDifficulty(d string) {
	cpuDifficulty = d
}

func init() {
	for _, m := range []Mode{ModeMarathon, ModeSprint, ModePractice, ModeRen, ModeCPU} {
		registry.Register(modeInfo[m].id, func() registry.Game {
			return New(m)
		})
		registry.RegisterAlias(modeInfo[m].alias, modeInfo[m].id)
	}
}

// Game runs one blockfall mode.
type Game struct {
	mode    Mode
	cfg     config.TetrisConfig
	runtime core.RuntimeConfig
	log     *log.Logger

	board      *engine.Board
	ctrl       *engine.Controller
	cpu        *engine.ComputerPlayer
	loggedPlan int   // spawn serial whose cpu plan was logged
	judge      Judge // nil in marathon and cpu modes
	scorer     *Scorer
	difficulty *config.DifficultyManager
	palette    map[engine.Shape]core.Color

	tick      uint64
	elapsed   time.Duration
	retries   int
	paused    bool
	over      bool
	won       bool
	softDrop  time.Duration // remaining soft drop latch
	notice    string
	noticeFor time.Duration
	setupErr  error
}

// New creates a game for mode m. Call Reset before stepping it.
func New(m Mode) *Game {
	return &Game{mode: m}
}

// ID returns the game identifier.
func (g *Game) ID() string { return modeInfo[g.mode].id }

// Title returns the display name.
func (g *Game) Title() string { return modeInfo[g.mode].title }

// Mode returns the mode being played.
func (g *Game) Mode() Mode { return g.mode }

// Reset loads the configuration and starts a fresh run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.log = log.Default().WithPrefix("tetris")

	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		g.log.Warn("using default config", "err", err)
		cfg = config.DefaultTetrisConfig()
	}
	if difficultyPreset != "" {
		config.ApplyTetrisPreset(&cfg, difficultyPreset)
	}
	if cpuDifficulty != "" {
		cfg.CPU.Difficulty = cpuDifficulty
	}
	g.cfg = cfg
	g.palette = buildPalette(cfg.Theme)

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.retries = 0
	g.tick = 0
	g.elapsed = 0
	g.paused = false

	if err := g.start(); err != nil {
		g.log.Error("cannot start game", "mode", g.ID(), "err", err)
		g.setupErr = err
		g.over = true
	}
}

// start builds the board, controller and listeners for a new attempt.
func (g *Game) start() error {
	g.setupErr = nil
	g.over = false
	g.won = false
	g.softDrop = 0
	g.notice = ""
	g.noticeFor = 0
	g.cpu = nil
	g.loggedPlan = 0
	g.judge = nil

	bc := g.cfg.Board
	board, err := engine.NewBoard(bc.Width, bc.Height, bc.Visible)
	if err != nil {
		return err
	}
	g.board = board

	rules := g.rules()
	rnd, err := g.randomizer()
	if err != nil {
		return err
	}

	switch g.mode {
	case ModePractice:
		if err := ApplyLayout(board, g.cfg.Practice.Layout); err != nil {
			return err
		}
	case ModeRen:
		if err := ApplyLayout(board, g.cfg.Ren.Layout); err != nil {
			return err
		}
	}

	ctrl, err := engine.NewController(board, rnd, rules)
	if err != nil {
		return err
	}
	g.ctrl = ctrl

	g.scorer = NewScorer(g.cfg.Scoring)
	ctrl.AddLockListener(g.scorer)

	switch g.mode {
	case ModeSprint:
		g.judge = NewLineTargetJudge(g.cfg.Sprint.TargetLines, ctrl.Halt)
	case ModePractice:
		tech, ok := config.LookupTechnique(g.cfg.Practice.Technique)
		if !ok {
			return fmt.Errorf("tetris: unknown technique %q: %w", g.cfg.Practice.Technique, config.ErrInvalidConfig)
		}
		judge, err := NewTechniqueJudge(tech, g.cfg.Practice.Strict, g.cfg.Practice.RequireSpin, ctrl.Halt)
		if err != nil {
			return err
		}
		g.judge = judge
	case ModeRen:
		g.judge = NewComboJudge(g.cfg.Ren.Required, ctrl.Halt)
	case ModeCPU:
		d, err := engine.ParseDifficulty(g.cfg.CPU.Difficulty)
		if err != nil {
			return err
		}
		cpu, err := engine.NewComputerPlayer(ctrl, d, g.runtime.Seed+1)
		if err != nil {
			return err
		}
		g.cpu = cpu
	}
	if g.judge != nil {
		ctrl.AddLockListener(g.judge)
	}

	g.log.Debug("game started", "mode", g.ID(), "seed", g.runtime.Seed, "retry", g.retries)
	return nil
}

// rules maps the config onto engine rules for the current mode.
func (g *Game) rules() engine.Rules {
	var r engine.Rules
	switch g.mode {
	case ModeSprint, ModePractice, ModeRen:
		r = engine.TechniqueRules()
	default:
		r = engine.DefaultRules()
	}
	r.Spawn = engine.Vec{X: g.cfg.Spawn.X, Y: g.cfg.Spawn.Y}
	r.FallSpeed = g.cfg.Gravity.FallSpeed
	r.SoftDropSpeed = g.cfg.Gravity.SoftDropSpeed
	r.MoveAllowance = g.cfg.Lock.MoveAllowance
	r.RotateAllowance = g.cfg.Lock.RotateAllowance
	r.InactivityLock = time.Duration(g.cfg.Lock.InactivityMS) * time.Millisecond
	if g.mode == ModeCPU {
		r.FallSpeed = g.cfg.CPU.FallSpeed
	}
	return r
}

// randomizer builds the piece source for the current mode.
func (g *Game) randomizer() (*engine.Randomizer, error) {
	seed := g.runtime.Seed + int64(g.retries)
	if g.mode != ModePractice {
		return engine.NewRandomizer(seed, engine.RandomizerOptions{})
	}

	tech, ok := config.LookupTechnique(g.cfg.Practice.Technique)
	if !ok {
		return nil, fmt.Errorf("tetris: unknown technique %q: %w", g.cfg.Practice.Technique, config.ErrInvalidConfig)
	}
	seq, err := engine.ParseSequence(g.cfg.Practice.Sequence)
	if err != nil {
		return nil, err
	}
	targets, err := engine.ParseSequence(tech.Shapes)
	if err != nil {
		return nil, err
	}
	opts := engine.RandomizerOptions{Sequence: seq, Shapes: targets}
	if len(targets) == 1 {
		opts.Single = &targets[0]
	}
	return engine.NewRandomizer(seed, opts)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	var notes []string
	if g.over {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
		g.ctrl.SetPaused(g.paused)
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickDuration()
	g.tick++
	g.elapsed += dt
	if g.noticeFor > 0 {
		g.noticeFor -= dt
	}

	switch g.mode {
	case ModeMarathon:
		g.ctrl.SetFallSpeed(g.difficulty.FallSpeed(g.cfg.Gravity.FallSpeed, g.scorer.Lines(), int(g.tick)))
	case ModeCPU:
		g.ctrl.SetFallSpeed(g.difficulty.FallSpeed(g.cfg.CPU.FallSpeed, g.scorer.Lines(), int(g.tick)))
	}

	var input engine.Input
	if g.cpu != nil {
		g.cpu.Advance(dt)
		if plan, ok := g.cpu.Plan(); ok && g.ctrl.Spawns() != g.loggedPlan {
			g.loggedPlan = g.ctrl.Spawns()
			g.log.Debug("cpu plan", "rotations", plan.Rotations, "x", plan.TargetX)
		}
	} else {
		input = g.mapInput(in, dt)
	}

	for _, ev := range g.ctrl.Advance(dt, input) {
		switch ev.Type {
		case engine.EventLocked:
			if note := g.lockNotice(ev); note != "" {
				notes = append(notes, note)
				g.notice = note
				g.noticeFor = noticeDuration
			}
			g.log.Debug("piece locked", "shape", ev.Shape, "lines", ev.Lines, "spin", ev.Spin, "score", g.scorer.Score())
		case engine.EventHardDropped:
			g.scorer.AddHardDrop(ev.Cells)
		case engine.EventHoldStored, engine.EventHoldReleased:
			g.log.Debug("hold", "event", ev.Type, "shape", ev.Shape)
		case engine.EventTopOut:
			g.over = true
			g.log.Debug("top out", "mode", g.ID(), "score", g.scorer.Score(), "lines", g.scorer.Lines())
		}
	}

	if g.judge != nil {
		switch g.judge.Outcome() {
		case OutcomeCleared:
			g.over = true
			g.won = true
			v := g.judge.Verdict(g.elapsed)
			notes = append(notes, v.Headline)
			g.log.Debug("goal reached", "mode", g.ID(), "elapsed", g.elapsed, "tier", v.Tier)
		case OutcomeRetry:
			g.retries++
			notes = append(notes, "RETRY")
			g.log.Debug("drill missed, restarting", "retries", g.retries)
			g.tick = 0
			g.elapsed = 0
			if err := g.start(); err != nil {
				g.setupErr = err
				g.over = true
			}
			g.notice = "RETRY"
			g.noticeFor = noticeDuration
		}
	}

	return core.StepResult{State: g.State(), Events: notes}
}

// mapInput turns platform actions into engine input. Terminals report key
// presses and repeats but no releases, so soft drop stays held for a short
// latch after each down press.
func (g *Game) mapInput(in core.InputFrame, dt time.Duration) engine.Input {
	if in.Has(core.ActionDown) {
		g.softDrop = time.Duration(g.cfg.Input.SoftDropLatchMS) * time.Millisecond
	}
	held := g.softDrop > 0
	if g.softDrop > 0 {
		g.softDrop -= dt
	}
	return engine.Input{
		Left:      in.Has(core.ActionLeft),
		Right:     in.Has(core.ActionRight),
		Up:        in.Has(core.ActionUp),
		RotateCW:  in.Has(core.ActionRotateCW),
		RotateCCW: in.Has(core.ActionRotateCCW),
		HardDrop:  in.Has(core.ActionHardDrop),
		SoftDrop:  held,
		Hold:      in.Has(core.ActionHold),
	}
}

var spinNames = []string{"", " SINGLE", " DOUBLE", " TRIPLE"}
var clearNames = []string{"", "SINGLE", "DOUBLE", "TRIPLE", "TETRIS"}

// lockNotice names a notable lock, or returns "" for an ordinary one.
func (g *Game) lockNotice(ev engine.Event) string {
	var parts []string
	switch {
	case ev.Spin && ev.Shape == engine.ShapeT && ev.Lines > 0:
		parts = append(parts, "T-SPIN"+spinNames[min(ev.Lines, 3)])
	case ev.Spin && ev.Lines > 0 && g.mode == ModePractice:
		parts = append(parts, ev.Shape.String()+"-SPIN"+spinNames[min(ev.Lines, 3)])
	case ev.Lines >= 2:
		parts = append(parts, clearNames[min(ev.Lines, 4)])
	}
	if combo := g.scorer.Last().Combo; combo > 1 {
		parts = append(parts, fmt.Sprintf("REN %d", combo-1))
	}
	return strings.Join(parts, " ")
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	var pieces, lines int
	if g.ctrl != nil {
		pieces, lines = g.ctrl.Stats()
	}
	score := 0
	if g.scorer != nil {
		score = g.scorer.Score()
	}
	return core.GameState{
		Score:    score,
		Lines:    lines,
		Pieces:   pieces,
		Elapsed:  g.elapsed,
		GameOver: g.over,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Err returns the setup error that ended the run, if any.
func (g *Game) Err() error { return g.setupErr }

// buildPalette maps theme color names onto shapes. Unknown names keep the
// built-in color.
func buildPalette(theme map[string]string) map[engine.Shape]core.Color {
	palette := map[engine.Shape]core.Color{
		engine.ShapeI:  core.ColorCyan,
		engine.ShapeJ:  core.ColorBlue,
		engine.ShapeL:  core.ColorOrange,
		engine.ShapeO:  core.ColorYellow,
		engine.ShapeS:  core.ColorGreen,
		engine.ShapeT:  core.ColorPurple,
		engine.ShapeZ:  core.ColorRed,
		engine.Garbage: core.ColorGray,
	}
	for letter, name := range theme {
		if len(letter) != 1 {
			continue
		}
		s, ok := engine.ParseShape(rune(strings.ToUpper(letter)[0]))
		if !ok {
			continue
		}
		if c, ok := core.ParseColor(name); ok {
			palette[s] = c
		}
	}
	return palette
}
