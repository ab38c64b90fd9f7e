package main

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/platform/tui"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play ShapeSynth",
	Long: `Start the interactive game. Without --level a level picker is shown.

Controls:
  Space/Enter   - Start the level
  Tab/S-Tab     - Select next/previous shape
  Arrows/WASD   - Move the selected shape
  Mouse click   - Select a shape, or drop the selected one
  R             - Rotate 15°
  +/-           - Grow/shrink
  H             - Use a hint
  X             - Restart the level
  N             - Next level (after clearing)
  Esc/B         - Back to the level picker
  Ctrl+S        - Save a screenshot
  Q/Ctrl+C      - Quit

Examples:
  shapesynth play
  shapesynth play --level 3
  shapesynth play --pack ./my-pack.yaml --log-file ./shapesynth.log`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start directly at this level")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(true)
	defer closeLog()

	c := mustCatalog(cfg)
	if flagLevel != 0 {
		if _, err := c.Level(flagLevel); err != nil {
			exitf("%v (run 'shapesynth levels' to list levels)", err)
		}
	}

	// Get terminal size
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}

	store := openStore(cfg.DBPath, logger)
	env := tui.Env{
		Catalog: c,
		Store:   store,
		Config:  cfg,
		Logger:  logger,
		Player:  playerName(),
	}

	runErr := tui.Run(env, rc, flagLevel)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("running game: %v", runErr)
	}
}

// playerName is the name runs are recorded under for local play.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
