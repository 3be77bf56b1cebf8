package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start blockfall with a mode picker menu",
	Long: `Start blockfall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode, then pick a
difficulty (skipped when --difficulty is given). After a game ends,
you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Scoreboard
  Q            - Quit

Examples:
  blockfall menu
  blockfall menu --fps 30
  blockfall menu --difficulty hard --db ./scores.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagCPU, "cpu", "", "Computer player strength: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		gameID := menuResult.GameID
		if gameID == "" {
			return nil
		}

		game, err := registry.Create(gameID)
		if err != nil {
			log.Error("cannot create game", "game", gameID, "err", err)
			continue
		}

		if flagDifficulty == "" {
			preset, selErr := tui.RunDifficultySelector(game.Title(), cfg)
			if selErr != nil {
				return selErr
			}
			if preset == nil {
				continue
			}
			tetris.SetDifficultyPreset(string(*preset))
		}

		// Fresh seed for each game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		log.Info("starting game", "game", gameID, "mode", menuResult.Mode)
		if err := tui.Run(game, store, cfg); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
	}
}
