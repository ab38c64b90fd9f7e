// shapesynth is a timed shape-matching puzzle for the terminal.
//
// Usage:
//
//	shapesynth levels           - List the levels of the pack
//	shapesynth play             - Pick a level and play
//	shapesynth autoplay         - Solve every level from its hints, headless
//	shapesynth scores           - Show the best runs of the pack
//	shapesynth packs            - List registered level packs
//	shapesynth serve            - Start SSH server for remote play
//
// Global flags:
//
//	--pack <name|file>  - Level pack (default from config: classic)
//	--config <path>     - Config file (default search: ~/.shapesynth, ./configs)
//	--db <path>         - Run history database (default: ~/.shapesynth/scores.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import packs to register them
	_ "github.com/vovakirdan/shapesynth/internal/packs/classic"
)

var (
	// Global flags
	flagPack     string
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shapesynth",
	Short: "ShapeSynth - match morphing shapes to a target before time runs out",
	Long: `ShapeSynth is a terminal puzzle game: drag, rotate and scale morphing
shapes onto a target outline to reach the required match accuracy before the
countdown expires. Clearing a level carries your score and a time bonus into
the next one.

Available commands:
  levels    - Show the levels of the pack
  play      - Play interactively
  autoplay  - Solve the pack headlessly from its hints
  scores    - View the best runs
  packs     - Show registered level packs
  serve     - Start SSH server for remote play

Examples:
  shapesynth levels --difficulty easy
  shapesynth play --level 3
  shapesynth play --pack ./my-pack.yaml
  shapesynth serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagPack, "pack", "", "Level pack: registered name or path to a pack YAML (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (default ~/.shapesynth/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(serveCmd)
}
