package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/session"
)

// testViewport maps 10 canvas units to one cell in both directions.
func testViewport() Viewport {
	return Viewport{Area: core.NewRect(0, 0, 81, 61)}
}

func TestViewportRoundTrip(t *testing.T) {
	v := testViewport()

	x, y := v.ToCell(core.Pt(400, 300))
	if x != 40 || y != 30 {
		t.Fatalf("ToCell(400,300) = (%d,%d), want (40,30)", x, y)
	}

	p, ok := v.ToCanvas(40, 30)
	if !ok {
		t.Fatal("ToCanvas(40,30) reported outside")
	}
	if p != core.Pt(400, 300) {
		t.Errorf("ToCanvas(40,30) = %v, want (400,300)", p)
	}

	if _, ok := v.ToCanvas(81, 10); ok {
		t.Error("ToCanvas right of the playfield should be outside")
	}
	if _, ok := v.ToCanvas(10, -1); ok {
		t.Error("ToCanvas above the playfield should be outside")
	}
}

func TestViewportOffset(t *testing.T) {
	v := Viewport{Area: core.NewRect(1, 3, 81, 61)}
	x, y := v.ToCell(core.Pt(0, 0))
	if x != 1 || y != 3 {
		t.Errorf("ToCell(0,0) = (%d,%d), want (1,3)", x, y)
	}
	p, ok := v.ToCanvas(81, 63)
	if !ok || p != core.Pt(800, 600) {
		t.Errorf("ToCanvas(81,63) = %v %v, want (800,600) true", p, ok)
	}
}

func testShapes() []catalog.Shape {
	state := []catalog.MorphState{{Color1: "#FF0000", Color2: "#00FF00", BorderRadius: 0}}
	return []catalog.Shape{
		{ID: "a", LevelID: 1, Scale: 1, MorphStates: state},
		{ID: "b", LevelID: 1, Scale: 1, MorphStates: state},
	}
}

func TestShapeAtUsesTrayForUnplacedShapes(t *testing.T) {
	v := testViewport()
	shapes := testShapes()

	// Tray slots are (50,50) and (170,50): cells (5,5) and (17,5).
	if id, ok := v.ShapeAt(shapes, 5, 5); !ok || id != "a" {
		t.Errorf("ShapeAt(5,5) = %q %v, want a", id, ok)
	}
	if id, ok := v.ShapeAt(shapes, 17, 5); !ok || id != "b" {
		t.Errorf("ShapeAt(17,5) = %q %v, want b", id, ok)
	}
	if id, ok := v.ShapeAt(shapes, 40, 30); ok {
		t.Errorf("ShapeAt(40,30) = %q, want no shape", id)
	}
}

func TestShapeAtPrefersTopmost(t *testing.T) {
	v := testViewport()
	shapes := testShapes()
	for i := range shapes {
		shapes[i].Position = core.PlacedAt(400, 300)
	}

	if id, ok := v.ShapeAt(shapes, 40, 30); !ok || id != "b" {
		t.Errorf("ShapeAt on overlap = %q %v, want b (drawn last)", id, ok)
	}
}

func TestShapeAtFollowsScale(t *testing.T) {
	v := testViewport()
	shapes := testShapes()[:1]
	shapes[0].Position = core.PlacedAt(400, 300)

	// 60 units at scale 1 covers 6 cells: 37..42.
	if _, ok := v.ShapeAt(shapes, 44, 30); ok {
		t.Error("cell 44 should be outside a scale 1 shape")
	}
	shapes[0].Scale = 2
	if _, ok := v.ShapeAt(shapes, 44, 30); !ok {
		t.Error("cell 44 should be inside a scale 2 shape")
	}
}

func TestRotationRune(t *testing.T) {
	tests := []struct {
		deg  int
		want rune
	}{
		{0, '↑'},
		{15, '↑'},
		{45, '↗'},
		{90, '→'},
		{180, '↓'},
		{345, '↑'},
		{-90, '←'},
	}
	for _, tt := range tests {
		if got := rotationRune(tt.deg); got != tt.want {
			t.Errorf("rotationRune(%d) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestDrawPlayfield(t *testing.T) {
	v := Viewport{Area: core.NewRect(1, 1, 81, 61)}
	c := core.NewCanvas(83, 63)

	shapes := testShapes()
	shapes[1].Position = core.PlacedAt(600, 450)
	snap := session.Snapshot{
		Loaded:   true,
		Level:    catalog.Level{ID: 1, Target: catalog.TargetOutline{Width: 200, Height: 200}},
		Shapes:   shapes,
		Selected: "b",
		Hint:     &catalog.Hint{LevelID: 1, ShapeID: "a", Position: core.Pt(400, 300), Rotation: 30, Scale: 1.5},
	}

	DrawPlayfield(c, v, snap, core.Pt(400, 300), false)

	if got := c.Get(0, 0).Rune; got == ' ' {
		t.Error("frame corner not drawn")
	}
	if got := c.Get(41, 31); got.Rune != '◎' || got.Color != colorWarning {
		t.Errorf("hint marker = %q %s, want ◎ in warning color", got.Rune, got.Color)
	}
	if !strings.Contains(c.String(), "30° ×1.5") {
		t.Error("hint label missing")
	}

	// Unplaced shape a sits in its tray slot at cell (6,6).
	if got := c.Get(6, 5); got.Color != "#FF0000" {
		t.Errorf("tray shape cell color = %q, want #FF0000", got.Color)
	}
	// Rotation arrow at the center of placed shape b.
	if got := c.Get(61, 46); got.Rune != '↑' {
		t.Errorf("rotation marker = %q, want ↑", got.Rune)
	}
}

func TestDrawPlayfieldUnloaded(t *testing.T) {
	v := Viewport{Area: core.NewRect(1, 1, 10, 5)}
	c := core.NewCanvas(12, 7)
	DrawPlayfield(c, v, session.Snapshot{}, core.Pt(400, 300), false)

	if got := c.Get(5, 3).Rune; got != ' ' {
		t.Errorf("interior of an unloaded playfield = %q, want blank", got)
	}
}
