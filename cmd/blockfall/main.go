// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list              - List available modes
//	blockfall play <mode>       - Play a mode
//	blockfall menu              - Start menu to pick modes interactively
//	blockfall serve             - Start SSH server for remote play
//	blockfall scores <mode>     - Show best runs for a mode
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.blockfall/scores.db)
//	--log-file <path>   - Write logs to a file
//	--debug             - Log game events at debug level
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/tetris"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagDebug   bool

	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a terminal falling-block puzzle game with SRS rotation,
hold, a 7-bag randomizer, technique drills and a computer player.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View best runs

Examples:
  blockfall list
  blockfall play sprint
  blockfall play tetris_practice --difficulty hard
  blockfall menu
  blockfall serve --ssh :2222
  blockfall scores tetris`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setupLogging installs the default logger. The alt screen owns the terminal
// while a game runs, so logs go to --log-file or nowhere; serve keeps stderr.
func setupLogging(cmd *cobra.Command, _ []string) error {
	var out io.Writer = io.Discard
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", flagLogFile, err)
		}
		logFile = f
		out = f
	case cmd.Name() == serveCmd.Name():
		out = os.Stderr
	}

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	log.SetDefault(log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	}))
	return nil
}
