// Package match scores how well the placed shapes satisfy a level's target.
//
// The score is a placement-proximity heuristic: each placed shape earns
// points for being close to the target center, and the result is the mean
// over placed shapes. Rotation, scale and the outline geometry do not
// contribute.
package match

import (
	"math"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/core"
)

// Defaults of the classic playfield.
const (
	DefaultCenterX     = 400.0
	DefaultCenterY     = 300.0
	DefaultMaxDistance = 200.0
)

// Evaluator computes match percentages. The zero value is not usable;
// use Default or fill both fields.
type Evaluator struct {
	Center      core.Point // target center in canvas space
	MaxDistance float64    // distance at which a shape scores 0
}

// Default returns the evaluator for the 800x600 classic playfield.
func Default() Evaluator {
	return Evaluator{
		Center:      core.Pt(DefaultCenterX, DefaultCenterY),
		MaxDistance: DefaultMaxDistance,
	}
}

// Evaluate returns the match percentage (0-100) for the given shapes.
// Unplaced shapes are ignored; with nothing placed the result is 0.
func (e Evaluator) Evaluate(shapes []catalog.Shape, target catalog.TargetOutline) float64 {
	if e.MaxDistance <= 0 {
		return 0
	}

	placed := 0
	total := 0.0
	for _, s := range shapes {
		if !s.Placed() {
			continue
		}
		placed++
		total += e.shapeScore(s.Position.Point)
	}

	if placed == 0 {
		return 0
	}
	return core.ClampF(total/float64(placed), 0, 100)
}

// shapeScore converts the distance of one shape to a 0-100 score. A shape
// at a non-finite position scores 0.
func (e Evaluator) shapeScore(p core.Point) float64 {
	d := p.Distance(e.Center)
	if math.IsNaN(d) {
		return 0
	}
	score := (e.MaxDistance - d) / e.MaxDistance * 100
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	return score
}

// Evaluate scores shapes with the Default evaluator.
func Evaluate(shapes []catalog.Shape, target catalog.TargetOutline) float64 {
	return Default().Evaluate(shapes, target)
}
