package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the hard-coded configuration used when the
// embedded YAML cannot be parsed. It matches defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Width:   10,
			Height:  22,
			Visible: 20,
		},
		Gravity: GravityConfig{
			FallSpeed:     1.0,
			SoftDropSpeed: 12.0,
		},
		Lock: LockConfig{
			MoveAllowance:   14,
			RotateAllowance: 15,
			InactivityMS:    900,
		},
		Spawn:   SpawnConfig{X: 4, Y: 20},
		Preview: 5,
		Input:   InputConfig{SoftDropLatchMS: 120},
		Scoring: ScoringConfig{
			LinesPerLevel: 10,
			LineClear:     []int{100, 300, 500, 800},
			SpinClear:     []int{400, 800, 1200, 1600},
			ComboBonus:    50,
			HardDropCell:  2,
		},
		Sprint: SprintConfig{TargetLines: 40},
		Practice: PracticeConfig{
			Technique: "tsd",
			Sequence:  "OT",
			Layout: []string{
				"...x......",
				"x...xxxxxx",
				"xx.xxxxxxx",
			},
		},
		Ren: RenConfig{
			Required: 3,
			Layout:   defaultRenLayout(),
		},
		CPU: CPUConfig{
			Difficulty: "normal",
			FallSpeed:  2.0,
		},
		Theme: map[string]string{
			"I": "cyan",
			"J": "blue",
			"L": "orange",
			"O": "yellow",
			"S": "green",
			"T": "purple",
			"Z": "red",
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "lines",
				MaxAt: 150,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 14.0,
			},
		},
	}
}

// defaultRenLayout is a three-wide well between permanent walls.
func defaultRenLayout() []string {
	rows := make([]string, 0, 16)
	for range 14 {
		rows = append(rows, "...#######")
	}
	return append(rows, "x..#######", "xx.#######")
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tetris", "tetris_sprint", "tetris_practice", "tetris_ren", "tetris_cpu":
		return defaultTetrisYAML
	default:
		return nil
	}
}
