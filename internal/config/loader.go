package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTetris loads the blockfall configuration.
// Search order: customPath -> ~/.blockfall/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default
//
// Files are decoded over the defaults, so a file may set only the keys it
// wants to change.
func LoadTetris(customPath string) (TetrisConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTetrisConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeTetris(data)
		if err != nil {
			return DefaultTetrisConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tetris.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeTetris(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "tetris.yaml")); err == nil {
		if cfg, err := decodeTetris(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeTetris(defaultTetrisYAML)
	if err != nil {
		return DefaultTetrisConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeTetris overlays YAML onto the hard-coded defaults and validates the result.
func decodeTetris(data []byte) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockfall", "configs", filename)
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust drills and the computer player to match
	switch preset {
	case DifficultyEasy:
		cfg.CPU.Difficulty = "easy"
		cfg.Ren.Required = 0
		cfg.Practice.Strict = false
	case DifficultyNormal:
		cfg.CPU.Difficulty = "normal"
		cfg.Ren.Required = 3
	case DifficultyHard:
		cfg.CPU.Difficulty = "hard"
		cfg.Ren.Required = 5
		cfg.Practice.Strict = true
	}
}
