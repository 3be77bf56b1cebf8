package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows a list of all registered game modes and their short aliases.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, "ID", "Alias", "Title")
	fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, "--", "-----", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, g.ID, g.Alias, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'blockfall play <id|alias>' to play a mode.")
}
