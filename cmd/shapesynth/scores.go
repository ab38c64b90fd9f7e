package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs of the pack",
	Long: `Display the top runs and per-level statistics of the selected pack.

Examples:
  shapesynth scores
  shapesynth scores --limit 20
  shapesynth scores --pack ./my-pack.yaml
  shapesynth scores --clear`,
	Run: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the run history of the pack")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(false)
	defer closeLog()

	c := mustCatalog(cfg)
	store := openStore(cfg.DBPath, logger)
	if store == nil {
		exitf("cannot open run history at %s", cfg.DBPath)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(c.Name()); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Cleared run history of %s.\n", c.Title())
		return
	}

	runs, err := store.TopRuns(c.Name(), flagScoresLimit)
	if err != nil {
		exitf("retrieving runs: %v", err)
	}

	fmt.Printf("High Scores - %s\n", c.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'shapesynth play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-5s  %-7s  %-6s  %-8s  %s\n", "Rank", "Player", "Level", "Score", "Match", "Outcome", "Date")
	fmt.Printf("  %-4s  %-12s  %-5s  %-7s  %-6s  %-8s  %s\n", "----", "------", "-----", "-----", "-----", "-------", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-5d  %-7d  %5.0f%%  %-8s  %s\n",
			i+1, r.Player, r.LevelID, r.Score, r.Match, r.Outcome, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.LevelStats(c.Name())
	if err != nil {
		exitf("retrieving level stats: %v", err)
	}

	fmt.Println()
	fmt.Println("Per level:")
	for _, st := range stats {
		name := fmt.Sprintf("level %d", st.LevelID)
		if lvl, err := c.Level(st.LevelID); err == nil {
			name = fmt.Sprintf("%d. %s", lvl.ID, lvl.Name)
		}
		fmt.Printf("  %-20s  %3d tries  %3.0f%% cleared  best %d\n",
			name, st.Attempts, st.SuccessRate()*100, st.BestScore)
	}

	if best, err := store.HighScore(c.Name()); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
}
