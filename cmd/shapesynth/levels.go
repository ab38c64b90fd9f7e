package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesynth/internal/catalog"
)

var flagDifficulty string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels of the pack",
	Long: `Shows every level of the selected pack with its difficulty, time limit
and required accuracy.

Examples:
  shapesynth levels
  shapesynth levels --difficulty hard
  shapesynth levels --pack ./my-pack.yaml`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Only show levels of this difficulty: easy, medium, hard, expert")
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	c := mustCatalog(cfg)

	levels := c.Levels()
	if flagDifficulty != "" {
		d, err := catalog.ParseDifficulty(flagDifficulty)
		if err != nil {
			exitf("%v", err)
		}
		levels = c.ByDifficulty(d)
	}

	fmt.Printf("%s (%s)\n", c.Title(), c.Name())
	fmt.Println()

	if len(levels) == 0 {
		fmt.Println("No levels match.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range levels {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	// Print header
	fmt.Printf("  %-3s  %-*s  %-6s  %5s  %6s  %6s  %s\n", "ID", maxNameLen, "Name", "Level", "Time", "Target", "Shapes", "Hints")
	fmt.Printf("  %-3s  %-*s  %-6s  %5s  %6s  %6s  %s\n", "--", maxNameLen, "----", "-----", "----", "------", "------", "-----")

	for _, l := range levels {
		shapes, _ := c.ShapesForLevel(l.ID)
		hints, _ := c.HintsForLevel(l.ID)
		fmt.Printf("  %-3d  %-*s  %-6s  %4ds  %5.0f%%  %6d  %d\n",
			l.ID, maxNameLen, l.Name, l.Difficulty, l.TimeLimit, l.RequiredAccuracy, len(shapes), len(hints))
	}

	fmt.Println()
	fmt.Println("Run 'shapesynth play --level <id>' to play a level.")
}
