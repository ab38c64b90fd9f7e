package session

import "github.com/vovakirdan/shapesynth/internal/catalog"

// Status is the lifecycle phase of a level attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the attempt has ended.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// State is the scoring state of the current attempt.
type State struct {
	LevelID         int
	TimeRemaining   int // seconds, never negative
	Score           int
	MatchPercentage float64 // 0-100
	Status          Status
	HintsRemaining  int
}

// Snapshot is a consistent read-only copy of everything a view needs.
type Snapshot struct {
	State    State
	Level    catalog.Level
	Loaded   bool
	Shapes   []catalog.Shape
	Selected string        // empty when nothing is selected
	Hint     *catalog.Hint // nil when no hint is shown
}

// SelectedShape returns the selected shape, if any.
func (s Snapshot) SelectedShape() (catalog.Shape, bool) {
	if s.Selected == "" {
		return catalog.Shape{}, false
	}
	for _, sh := range s.Shapes {
		if sh.ID == s.Selected {
			return sh, true
		}
	}
	return catalog.Shape{}, false
}
