package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesynth/internal/registry"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List registered level packs",
	Long: `Shows the level packs built into shapesynth. Any pack YAML file can
also be passed to --pack directly.`,
	Run: runPacks,
}

func runPacks(_ *cobra.Command, _ []string) {
	packs := registry.List()

	if len(packs) == 0 {
		fmt.Println("No packs available.")
		return
	}

	fmt.Println("Available packs:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, p := range packs {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	fmt.Printf("  %-*s  %-6s  %s\n", maxNameLen, "Name", "Levels", "Title")
	fmt.Printf("  %-*s  %-6s  %s\n", maxNameLen, "----", "------", "-----")

	for _, p := range packs {
		fmt.Printf("  %-*s  %-6d  %s\n", maxNameLen, p.Name, p.Levels, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'shapesynth play --pack <name>' to play a pack.")
}
