package config

import (
	"time"

	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/match"
	"github.com/vovakirdan/shapesynth/internal/session"
)

// Evaluator returns the match evaluator described by the scoring section.
func (c ScoringConfig) Evaluator() match.Evaluator {
	return match.Evaluator{
		Center:      core.Pt(c.CenterX, c.CenterY),
		MaxDistance: c.MaxDistance,
	}
}

// SessionOptions translates the configuration into session options.
// Scheduler and logger are left to the caller.
func (c Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithEvaluator(c.Scoring.Evaluator()),
		session.WithHintBudget(c.Session.HintBudget),
		session.WithHintDuration(c.Session.HintDuration()),
		session.WithTickInterval(c.Session.TickInterval()),
		session.WithTimeBonus(c.Session.TimeBonusPerSecond),
		session.WithRotationStep(c.Session.RotationStep),
	}
}

// FrameInterval returns the terminal redraw interval.
func (c UIConfig) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(c.FPS)
}
