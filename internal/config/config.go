// Package config provides YAML-based configuration loading for ShapeSynth.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config contains all tunable settings of the game.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Scoring ScoringConfig `yaml:"scoring"`
	UI      UIConfig      `yaml:"ui"`
	Pack    string        `yaml:"pack"`    // registered pack name or path to a pack file
	DBPath  string        `yaml:"db_path"` // empty means ~/.shapesynth/scores.db
}

// SessionConfig defines the rules of a game session.
type SessionConfig struct {
	HintBudget         int `yaml:"hint_budget"`
	HintDurationMS     int `yaml:"hint_duration_ms"`
	TickIntervalMS     int `yaml:"tick_interval_ms"`
	TimeBonusPerSecond int `yaml:"time_bonus_per_second"`
	RotationStep       int `yaml:"rotation_step"` // degrees

	ScaleStep float64 `yaml:"scale_step"`
}

// HintDuration returns the hint lifetime as a duration.
func (c SessionConfig) HintDuration() time.Duration {
	return time.Duration(c.HintDurationMS) * time.Millisecond
}

// TickInterval returns the countdown interval as a duration.
func (c SessionConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// ScoringConfig defines the match evaluator geometry in canvas units.
type ScoringConfig struct {
	CenterX     float64 `yaml:"center_x"`
	CenterY     float64 `yaml:"center_y"`
	MaxDistance float64 `yaml:"max_distance"`
}

// UIConfig defines terminal presentation parameters.
type UIConfig struct {
	FPS      int     `yaml:"fps"`
	MoveStep float64 `yaml:"move_step"` // canvas units per arrow key press
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	if c.Session.HintBudget < 0 {
		errs = append(errs, errors.New("session.hint_budget must not be negative"))
	}
	if c.Session.HintDurationMS <= 0 {
		errs = append(errs, errors.New("session.hint_duration_ms must be positive"))
	}
	if c.Session.TickIntervalMS <= 0 {
		errs = append(errs, errors.New("session.tick_interval_ms must be positive"))
	}
	if c.Session.TimeBonusPerSecond < 0 {
		errs = append(errs, errors.New("session.time_bonus_per_second must not be negative"))
	}
	if c.Session.RotationStep <= 0 || c.Session.RotationStep >= 360 {
		errs = append(errs, fmt.Errorf("session.rotation_step %d out of range 1-359", c.Session.RotationStep))
	}
	if c.Session.ScaleStep <= 0 {
		errs = append(errs, errors.New("session.scale_step must be positive"))
	}
	if c.Scoring.MaxDistance <= 0 {
		errs = append(errs, errors.New("scoring.max_distance must be positive"))
	}
	if c.UI.FPS <= 0 {
		errs = append(errs, errors.New("ui.fps must be positive"))
	}
	if c.UI.MoveStep <= 0 {
		errs = append(errs, errors.New("ui.move_step must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
