package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/session"
)

// Playfield dimensions in canvas units. Level packs, hints and the match
// evaluator all work in this space; the terminal shows a scaled view of it.
const (
	FieldWidth  = 800.0
	FieldHeight = 600.0

	shapeSize = 60.0 // canvas units covered by a shape at scale 1
)

// TrayPosition returns where the i-th shape is shown before it is placed.
func TrayPosition(i int) core.Point {
	return core.Pt(50+120*float64(i), 50)
}

// Viewport maps between canvas units and the terminal cells of the
// playfield interior.
type Viewport struct {
	Area core.Rect
}

// ToCell converts a canvas point to a cell position.
func (v Viewport) ToCell(p core.Point) (x, y int) {
	x = v.Area.X + int(math.Round(p.X/FieldWidth*float64(core.Max(v.Area.W-1, 0))))
	y = v.Area.Y + int(math.Round(p.Y/FieldHeight*float64(core.Max(v.Area.H-1, 0))))
	return x, y
}

// ToCanvas converts a cell position to the canvas point at its center.
// ok is false for cells outside the playfield.
func (v Viewport) ToCanvas(x, y int) (p core.Point, ok bool) {
	if !v.Area.Contains(x, y) {
		return core.Point{}, false
	}
	fx, fy := 0.0, 0.0
	if v.Area.W > 1 {
		fx = float64(x-v.Area.X) / float64(v.Area.W-1) * FieldWidth
	}
	if v.Area.H > 1 {
		fy = float64(y-v.Area.Y) / float64(v.Area.H-1) * FieldHeight
	}
	return core.Pt(fx, fy), true
}

// spanX returns the number of columns covering a horizontal length.
func (v Viewport) spanX(units float64) int {
	return core.Max(int(math.Round(units/FieldWidth*float64(v.Area.W))), 1)
}

// spanY returns the number of rows covering a vertical length.
func (v Viewport) spanY(units float64) int {
	return core.Max(int(math.Round(units/FieldHeight*float64(v.Area.H))), 1)
}

// displayPosition is where a shape is drawn: its placement, or its tray slot.
func displayPosition(sh catalog.Shape, i int) core.Point {
	if sh.Placed() {
		return sh.Position.Point
	}
	return TrayPosition(i)
}

// shapeRect returns the cells covered by the i-th shape.
func (v Viewport) shapeRect(sh catalog.Shape, i int) core.Rect {
	size := shapeSize * sh.Scale
	cx, cy := v.ToCell(displayPosition(sh, i))
	return core.CenteredRect(cx, cy, v.spanX(size), v.spanY(size))
}

// ShapeAt returns the id of the topmost shape covering the cell, if any.
func (v Viewport) ShapeAt(shapes []catalog.Shape, x, y int) (string, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		if v.shapeRect(shapes[i], i).Contains(x, y) {
			return shapes[i].ID, true
		}
	}
	return "", false
}

// fillRune picks a fill character from the morph state's corner radius.
func fillRune(radius float64) rune {
	switch {
	case radius >= 30:
		return '●'
	case radius >= 12:
		return '▓'
	default:
		return '█'
	}
}

var rotationArrows = []rune("↑↗→↘↓↙←↖")

// rotationRune returns an arrow pointing in the shape's rotated "up".
func rotationRune(deg int) rune {
	idx := ((core.WrapDegrees(deg) + 22) / 45) % len(rotationArrows)
	return rotationArrows[idx]
}

// DrawPlayfield draws the frame, target outline, hint ghost and shapes.
func DrawPlayfield(c *core.Canvas, v Viewport, snap session.Snapshot, target core.Point, blink bool) {
	frame := core.NewRect(v.Area.X-1, v.Area.Y-1, v.Area.W+2, v.Area.H+2)
	c.DrawBox(frame, false, colorFrame)

	if !snap.Loaded {
		return
	}

	// Target outline. Rotation is shown in the HUD; the cell grid cannot tilt.
	t := snap.Level.Target
	cx, cy := v.ToCell(target)
	outline := core.CenteredRect(cx, cy, v.spanX(t.Width), v.spanY(t.Height))
	c.DrawBox(outline, t.BorderRadius > 0, colorTarget)
	c.Set(cx, cy, '+', colorTarget)

	if h := snap.Hint; h != nil {
		hx, hy := v.ToCell(h.Position)
		size := shapeSize * h.Scale
		ghost := core.CenteredRect(hx, hy, v.spanX(size)+2, v.spanY(size)+2)
		c.DrawBox(ghost, true, colorWarning)
		c.Set(hx, hy, '◎', colorWarning)
		c.DrawText(ghost.X, ghost.Bottom(), fmt.Sprintf("%d° ×%.1f", h.Rotation, h.Scale), colorWarning)
	}

	for i, sh := range snap.Shapes {
		r := v.shapeRect(sh, i)
		m := sh.Morph()
		c.FillRect(r, fillRune(m.BorderRadius), m.Color1)

		mx, my := r.X+r.W/2, r.Y+r.H/2
		c.Set(mx, my, rotationRune(sh.Rotation), m.Color2)

		if sh.ID == snap.Selected {
			border := core.NewRect(r.X-1, r.Y-1, r.W+2, r.H+2)
			color := m.Color2
			if blink {
				color = "#FFFFFF"
			}
			c.DrawBox(border, true, color)
		}
	}
}
