// Package autoplay solves a level pack headlessly. It drives a game session
// on a virtual clock, placing every shape where the pack's hints say, and is
// used by the autoplay command to check that packs are solvable in time.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/config"
	"github.com/vovakirdan/shapesynth/internal/session"
)

// DefaultThink is the virtual time spent before each placement.
const DefaultThink = 2 * time.Second

// Result is the outcome of one autoplayed level.
type Result struct {
	LevelID       int
	Name          string
	Status        session.Status
	Match         float64
	TimeRemaining int
	Score         int // includes the time bonus when the level was cleared
	HintsUsed     int
	Placed        int
}

// Player plays a pack from its hints.
type Player struct {
	Catalog *catalog.Catalog
	Config  config.Config
	Clock   *clock.Manual // nil creates a fresh virtual clock per Run
	Think   time.Duration // zero selects DefaultThink
	Logger  *log.Logger   // nil discards
	Results func(Result)  // called after every level, optional
}

// Run plays from level `from` until a level fails or the pack is exhausted.
func (p Player) Run(ctx context.Context, from int) ([]Result, error) {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewManual()
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	opts := append(p.Config.SessionOptions(),
		session.WithScheduler(clk),
		session.WithLogger(logger),
	)
	sess := session.NewFromCatalog(p.Catalog, opts...)
	defer sess.Close()

	if err := sess.Load(from); err != nil {
		return nil, fmt.Errorf("autoplay: %w", err)
	}
	if err := sess.Start(); err != nil {
		return nil, fmt.Errorf("autoplay: %w", err)
	}

	var results []Result
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := p.playLevel(sess, clk)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		logger.Info("level finished", "level", res.LevelID, "status", res.Status, "match", res.Match, "score", res.Score)
		if p.Results != nil {
			p.Results(res)
		}

		if res.Status != session.StatusSuccess {
			return results, nil
		}
		err = sess.AdvanceLevel()
		if errors.Is(err, session.ErrNotFound) {
			return results, nil
		}
		if err != nil {
			return results, fmt.Errorf("autoplay: %w", err)
		}
	}
}

// playLevel places shapes until the level ends, then runs the clock out if
// the placements were not accurate enough.
func (p Player) playLevel(sess *session.Session, clk *clock.Manual) (Result, error) {
	think := p.Think
	if think <= 0 {
		think = DefaultThink
	}

	snap := sess.Snapshot()
	lvl := snap.Level
	placed := 0

	for _, sh := range snap.Shapes {
		clk.Advance(think)
		if sess.State().Status != session.StatusActive {
			break
		}

		h, err := p.target(sess, lvl.ID, sh.ID)
		if err != nil {
			return Result{}, err
		}
		if err := p.pose(sess, h); err != nil {
			return Result{}, err
		}
		if err := sess.MoveShape(sh.ID, h.Position); err != nil {
			return Result{}, fmt.Errorf("autoplay: %w", err)
		}
		placed++

		if sess.State().Status != session.StatusActive {
			break
		}
	}

	// Not accurate enough: let the countdown expire.
	for sess.State().Status == session.StatusActive {
		clk.Advance(p.Config.Session.TickInterval())
	}

	st := sess.State()
	res := Result{
		LevelID:       lvl.ID,
		Name:          lvl.Name,
		Status:        st.Status,
		Match:         st.MatchPercentage,
		TimeRemaining: st.TimeRemaining,
		Score:         st.Score + sess.CompletionBonus(),
		HintsUsed:     sess.HintBudget() - st.HintsRemaining,
		Placed:        placed,
	}
	return res, nil
}

// target selects the shape and returns where it belongs: a session hint
// while the budget lasts, then the catalog entry, then the scoring center.
func (p Player) target(sess *session.Session, levelID int, shapeID string) (catalog.Hint, error) {
	if err := sess.SelectShape(shapeID); err != nil {
		return catalog.Hint{}, fmt.Errorf("autoplay: %w", err)
	}

	h, err := sess.UseHint(shapeID)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, session.ErrInvalidOperation) && !errors.Is(err, session.ErrNotFound) {
		return catalog.Hint{}, fmt.Errorf("autoplay: %w", err)
	}

	if h, err := p.Catalog.Hint(levelID, shapeID); err == nil {
		return h, nil
	}
	return catalog.Hint{
		LevelID:  levelID,
		ShapeID:  shapeID,
		Position: p.Config.Scoring.Evaluator().Center,
		Scale:    1,
	}, nil
}

// pose rotates and scales the selected shape to match h.
func (p Player) pose(sess *session.Session, h catalog.Hint) error {
	sh, ok := sess.Snapshot().SelectedShape()
	if !ok {
		return nil
	}

	step := p.Config.Session.RotationStep
	for i := 0; step > 0 && i < 360/step && sh.Rotation != h.Rotation; i++ {
		if err := sess.RotateSelected(); err != nil {
			return fmt.Errorf("autoplay: %w", err)
		}
		sh, _ = sess.Snapshot().SelectedShape()
	}

	if h.Scale > 0 && h.Scale != sh.Scale {
		if err := sess.ScaleSelected(h.Scale - sh.Scale); err != nil {
			return fmt.Errorf("autoplay: %w", err)
		}
	}
	return nil
}
