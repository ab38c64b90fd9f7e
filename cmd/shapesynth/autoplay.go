package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesynth/internal/autoplay"
	"github.com/vovakirdan/shapesynth/internal/session"
	"github.com/vovakirdan/shapesynth/internal/storage"
)

var (
	flagAutoFrom  int
	flagAutoThink time.Duration
	flagAutoSave  bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Solve the pack headlessly from its hints",
	Long: `Play every level of the pack on a virtual clock, placing shapes at
their hinted positions. Useful to check that a pack is solvable in time.

Examples:
  shapesynth autoplay
  shapesynth autoplay --pack ./my-pack.yaml --think 5s
  shapesynth autoplay --from 3 --save`,
	Run: runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagAutoFrom, "from", 0, "First level to play (default: first level of the pack)")
	autoplayCmd.Flags().DurationVar(&flagAutoThink, "think", autoplay.DefaultThink, "Virtual time spent before each placement")
	autoplayCmd.Flags().BoolVar(&flagAutoSave, "save", false, "Record the runs in the run history")
}

func runAutoplay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(false)
	defer closeLog()

	c := mustCatalog(cfg)
	from := flagAutoFrom
	if from == 0 {
		from = c.FirstLevel().ID
	}

	var store *storage.Store
	if flagAutoSave {
		store = openStore(cfg.DBPath, logger)
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Autoplay - %s\n", c.Title())
	fmt.Println()
	fmt.Printf("  %-3s  %-16s  %-8s  %6s  %5s  %5s  %s\n", "ID", "Name", "Outcome", "Match", "Left", "Hints", "Score")
	fmt.Printf("  %-3s  %-16s  %-8s  %6s  %5s  %5s  %s\n", "--", "----", "-------", "-----", "----", "-----", "-----")

	player := autoplay.Player{
		Catalog: c,
		Config:  cfg,
		Think:   flagAutoThink,
		Logger:  logger,
		Results: func(r autoplay.Result) {
			fmt.Printf("  %-3d  %-16s  %-8s  %5.1f%%  %4ds  %5d  %d\n",
				r.LevelID, r.Name, r.Status, r.Match, r.TimeRemaining, r.HintsUsed, r.Score)
			if store != nil {
				saveAutoplayRun(store, c.Name(), r, logger)
			}
		},
	}

	results, err := player.Run(ctx, from)
	if err != nil {
		exitf("%v", err)
	}

	fmt.Println()
	if n := len(results); n > 0 && results[n-1].Status == session.StatusSuccess {
		fmt.Printf("Cleared %d level(s). Final score: %d\n", n, results[n-1].Score)
		return
	}
	fmt.Println("The pack could not be cleared from its hints.")
	os.Exit(1)
}

func saveAutoplayRun(store *storage.Store, pack string, r autoplay.Result, logger *log.Logger) {
	outcome := storage.OutcomeFailed
	if r.Status == session.StatusSuccess {
		outcome = storage.OutcomeSuccess
	}
	_, err := store.SaveRun(storage.Run{
		Pack:          pack,
		LevelID:       r.LevelID,
		Player:        "autoplay",
		Outcome:       outcome,
		Score:         r.Score,
		Match:         r.Match,
		TimeRemaining: r.TimeRemaining,
		HintsUsed:     r.HintsUsed,
	})
	if err != nil {
		logger.Warn("could not save run", "level", r.LevelID, "error", err)
	}
}
