package config

import (
	_ "embed"
)

//go:embed defaults/shapesynth.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			HintBudget:         3,
			HintDurationMS:     4000,
			TickIntervalMS:     1000,
			TimeBonusPerSecond: 10,
			RotationStep:       15,
			ScaleStep:          0.1,
		},
		Scoring: ScoringConfig{
			CenterX:     400,
			CenterY:     300,
			MaxDistance: 200,
		},
		UI: UIConfig{
			FPS:      20,
			MoveStep: 20,
		},
		Pack: "classic",
	}
}
