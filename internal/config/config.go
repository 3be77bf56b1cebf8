// Package config provides YAML-based game configuration loading and
// difficulty management for the blockfall modes.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// TetrisConfig contains all configuration shared by the falling-block modes.
type TetrisConfig struct {
	Board      BoardConfig       `yaml:"board"`
	Gravity    GravityConfig     `yaml:"gravity"`
	Lock       LockConfig        `yaml:"lock"`
	Spawn      SpawnConfig       `yaml:"spawn"`
	Preview    int               `yaml:"preview"` // upcoming pieces shown
	Input      InputConfig       `yaml:"input"`
	Scoring    ScoringConfig     `yaml:"scoring"`
	Sprint     SprintConfig      `yaml:"sprint"`
	Practice   PracticeConfig    `yaml:"practice"`
	Ren        RenConfig         `yaml:"ren"`
	CPU        CPUConfig         `yaml:"cpu"`
	Theme      map[string]string `yaml:"theme"` // shape letter -> color name
	Difficulty DifficultyConfig  `yaml:"difficulty"`
}

// BoardConfig defines the playfield size.
type BoardConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`  // total rows including the hidden spawn buffer
	Visible int `yaml:"visible"` // rows drawn on screen
}

// GravityConfig defines fall speeds in cells per second.
type GravityConfig struct {
	FallSpeed     float64 `yaml:"fall_speed"`
	SoftDropSpeed float64 `yaml:"soft_drop_speed"`
}

// LockConfig defines the grounded lock rules.
type LockConfig struct {
	MoveAllowance   int `yaml:"move_allowance"`
	RotateAllowance int `yaml:"rotate_allowance"`
	InactivityMS    int `yaml:"inactivity_ms"`
}

// SpawnConfig is the pivot cell for new pieces.
type SpawnConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// InputConfig tunes how terminal key presses become held inputs.
type InputConfig struct {
	// SoftDropLatchMS keeps soft drop held for this long after the last
	// down key, since terminals only report presses and repeats.
	SoftDropLatchMS int `yaml:"soft_drop_latch_ms"`
}

// ScoringConfig defines points per lock.
type ScoringConfig struct {
	LinesPerLevel int   `yaml:"lines_per_level"`
	LineClear     []int `yaml:"line_clear"` // points for 1..4 lines, times level
	SpinClear     []int `yaml:"spin_clear"` // points for T-spin 0..3 lines, times level
	ComboBonus    int   `yaml:"combo_bonus"`
	HardDropCell  int   `yaml:"hard_drop_cell"`
}

// SprintConfig defines the line race.
type SprintConfig struct {
	TargetLines int `yaml:"target_lines"`
}

// PracticeConfig defines the technique drill.
type PracticeConfig struct {
	Technique   string   `yaml:"technique"` // tsd, tst, sz_single, sz_double, sz_triple
	Sequence    string   `yaml:"sequence"`  // scripted opening pieces, e.g. "OT"
	Strict      bool     `yaml:"strict"`    // a wrong clear restarts the drill
	RequireSpin bool     `yaml:"require_spin"`
	Layout      []string `yaml:"layout"` // rows top to bottom: '#' fixed, 'x' block, '.' empty
}

// RenConfig defines the combo drill.
type RenConfig struct {
	Required int      `yaml:"required"` // longest chain needed; 0 accepts any
	Layout   []string `yaml:"layout"`
}

// CPUConfig defines the computer player mode.
type CPUConfig struct {
	Difficulty string  `yaml:"difficulty"` // easy, normal, hard
	FallSpeed  float64 `yaml:"fall_speed"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over play.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "lines", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Lines/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to fall speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Empty input yields "".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed): %w", s, ErrInvalidConfig)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Validate checks values that would make the modes unplayable.
func (c TetrisConfig) Validate() error {
	if c.Board.Width < 4 || c.Board.Height < 4 {
		return fmt.Errorf("board %dx%d is too small: %w", c.Board.Width, c.Board.Height, ErrInvalidConfig)
	}
	if c.Board.Visible <= 0 || c.Board.Visible > c.Board.Height {
		return fmt.Errorf("visible rows %d outside 1..%d: %w", c.Board.Visible, c.Board.Height, ErrInvalidConfig)
	}
	if c.Preview < 0 || c.Preview > 7 {
		return fmt.Errorf("preview %d outside 0..7: %w", c.Preview, ErrInvalidConfig)
	}
	if c.Sprint.TargetLines <= 0 {
		return fmt.Errorf("sprint target %d must be positive: %w", c.Sprint.TargetLines, ErrInvalidConfig)
	}
	if _, ok := techniques[c.Practice.Technique]; !ok {
		return fmt.Errorf("unknown practice technique %q: %w", c.Practice.Technique, ErrInvalidConfig)
	}
	for name := range c.Theme {
		if len(name) != 1 || !strings.Contains("IJLOSTZ", strings.ToUpper(name)) {
			return fmt.Errorf("theme entry %q is not a shape letter: %w", name, ErrInvalidConfig)
		}
	}
	if err := validateLayout("practice", c.Practice.Layout, c.Board); err != nil {
		return err
	}
	return validateLayout("ren", c.Ren.Layout, c.Board)
}

func validateLayout(name string, rows []string, b BoardConfig) error {
	if len(rows) > b.Visible {
		return fmt.Errorf("%s layout has %d rows, board shows %d: %w", name, len(rows), b.Visible, ErrInvalidConfig)
	}
	for i, row := range rows {
		if len(row) != b.Width {
			return fmt.Errorf("%s layout row %d is %d wide, want %d: %w", name, i, len(row), b.Width, ErrInvalidConfig)
		}
		if strings.Trim(row, ".#xX") != "" {
			return fmt.Errorf("%s layout row %d has characters other than . # x: %w", name, i, ErrInvalidConfig)
		}
	}
	return nil
}

// Technique describes what a practice drill asks for.
type Technique struct {
	Name   string
	Shapes string // piece letters that count as attempts
	Lines  int
}

var techniques = map[string]Technique{
	"tsd":       {Name: "T-Spin Double", Shapes: "T", Lines: 2},
	"tst":       {Name: "T-Spin Triple", Shapes: "T", Lines: 3},
	"sz_single": {Name: "S/Z Spin Single", Shapes: "SZ", Lines: 1},
	"sz_double": {Name: "S/Z Spin Double", Shapes: "SZ", Lines: 2},
	"sz_triple": {Name: "S/Z Spin Triple", Shapes: "SZ", Lines: 3},
}

// LookupTechnique returns the drill definition for a technique key.
func LookupTechnique(key string) (Technique, bool) {
	t, ok := techniques[key]
	return t, ok
}
