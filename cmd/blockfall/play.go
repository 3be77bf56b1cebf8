package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagCPU        string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Controls:
  Left/Right, A/D  - Move
  Down/S           - Soft drop
  Up/W             - Nudge up (sprint and drills)
  X/K, Z/J         - Rotate clockwise / counter-clockwise
  Space            - Hard drop
  C                - Hold
  P                - Pause
  R                - Restart (after game over)
  Esc/B            - Leave the game
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slow start, lenient drills, easy CPU
  normal - Standard speed curve
  hard   - Fast start, strict drills, hard CPU
  fixed  - No speed-up, stays at config's values

Examples:
  blockfall play marathon
  blockfall play sprint --seed 7
  blockfall play practice --difficulty hard
  blockfall play cpu --cpu hard
  blockfall play tetris --config ./my-tetris.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagCPU, "cpu", "", "Computer player strength: easy, normal, hard")
}

// applyGameFlags validates and hands the game flags to the tetris package.
func applyGameFlags() error {
	if flagDifficulty != "" {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return fmt.Errorf("invalid --difficulty: %w", err)
		}
	}
	if flagCPU != "" {
		if _, err := engine.ParseDifficulty(flagCPU); err != nil {
			return fmt.Errorf("invalid --cpu: %w", err)
		}
	}
	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)
	tetris.SetCPUDifficulty(flagCPU)
	return nil
}

// runtimeConfig builds the runtime config from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID, ok := registry.Resolve(args[0])
	if !ok {
		return fmt.Errorf("unknown mode %q (run 'blockfall list' to see available modes)", args[0])
	}
	if err := applyGameFlags(); err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
