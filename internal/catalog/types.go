// Package catalog holds the read-only reference data of ShapeSynth: levels,
// the shapes each level starts with, and precomputed hints.
//
// A Catalog is immutable after construction and safe for concurrent use, so a
// single instance is shared by every game session of a process.
package catalog

import "github.com/vovakirdan/shapesynth/internal/core"

// TargetOutline is the goal geometry of a level.
type TargetOutline struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BorderRadius float64 `yaml:"border_radius"`
	Rotation     int     `yaml:"rotation"` // degrees
}

// Level is an immutable level definition.
type Level struct {
	ID               int           `yaml:"id"`
	Name             string        `yaml:"name"`
	Difficulty       Difficulty    `yaml:"difficulty"`
	TimeLimit        int           `yaml:"time_limit"`        // seconds
	RequiredAccuracy float64       `yaml:"required_accuracy"` // 0-100
	MorphSpeed       int           `yaml:"morph_speed"`       // ms per morph tick
	BaseScore        int           `yaml:"base_score"`        // score when the level is (re)started
	Target           TargetOutline `yaml:"target"`
}

// MorphState is one visual appearance in a shape's morph cycle.
type MorphState struct {
	Color1       string  `yaml:"color1"`
	Color2       string  `yaml:"color2"`
	BorderRadius float64 `yaml:"border_radius"`
}

// Shape is a placeable, morphing piece belonging to a level.
// Shapes are plain values: updating one means replacing the record.
type Shape struct {
	ID          string
	LevelID     int
	Position    core.Position
	Rotation    int     // degrees, 0-359
	Scale       float64 // 0.5-2.0
	MorphIndex  int
	MorphStates []MorphState
}

// Scale bounds for shapes.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// Morph returns the shape's current morph state.
func (s Shape) Morph() MorphState {
	if len(s.MorphStates) == 0 {
		return MorphState{}
	}
	return s.MorphStates[s.MorphIndex%len(s.MorphStates)]
}

// Placed reports whether the shape has been put on the canvas.
func (s Shape) Placed() bool {
	return s.Position.Placed()
}

// Reset returns a copy of the shape in its unplaced default state.
// The morph state slice is shared; it is never modified after loading.
func (s Shape) Reset() Shape {
	s.Position = core.Unplaced()
	s.Rotation = 0
	s.Scale = 1
	s.MorphIndex = 0
	return s
}

// Hint is a precomputed optimal placement for a shape within a level.
type Hint struct {
	LevelID  int
	ShapeID  string
	Position core.Point
	Rotation int
	Scale    float64
}
