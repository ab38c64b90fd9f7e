package session

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/match"
)

// Defaults for a new session.
const (
	DefaultHintBudget   = 3
	DefaultHintDuration = 4 * time.Second
	DefaultTickInterval = time.Second
	DefaultTimeBonus    = 10 // points per remaining second on advance
	DefaultRotationStep = 15 // degrees
)

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets the clock the session schedules its timers on.
func WithScheduler(s clock.Scheduler) Option {
	return func(sess *Session) {
		if s != nil {
			sess.sched = s
		}
	}
}

// WithEvaluator sets the match evaluator.
func WithEvaluator(e match.Evaluator) Option {
	return func(sess *Session) {
		sess.eval = e
	}
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l *log.Logger) Option {
	return func(sess *Session) {
		if l != nil {
			sess.log = l
		}
	}
}

// WithHintBudget sets the number of hints granted per level.
func WithHintBudget(n int) Option {
	return func(sess *Session) {
		if n >= 0 {
			sess.hintBudget = n
		}
	}
}

// WithHintDuration sets how long a used hint stays visible.
func WithHintDuration(d time.Duration) Option {
	return func(sess *Session) {
		if d > 0 {
			sess.hintDuration = d
		}
	}
}

// WithTickInterval sets the wall time of one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(sess *Session) {
		if d > 0 {
			sess.tickInterval = d
		}
	}
}

// WithTimeBonus sets the points awarded per remaining second on advance.
func WithTimeBonus(points int) Option {
	return func(sess *Session) {
		if points >= 0 {
			sess.timeBonus = points
		}
	}
}

// WithRotationStep sets the rotation applied by RotateSelected.
func WithRotationStep(deg int) Option {
	return func(sess *Session) {
		if deg > 0 {
			sess.rotationStep = deg
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
