package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPackYAML = `
name: test
title: Test Pack
levels:
  - id: 2
    name: Second
    difficulty: medium
    time_limit: 90
    required_accuracy: 75
    morph_speed: 1000
    base_score: 1000
    target: { width: 100, height: 80, border_radius: 4, rotation: 30 }
  - id: 1
    name: First
    difficulty: easy
    time_limit: 60
    required_accuracy: 70
    morph_speed: 2000
    target: { width: 200, height: 200 }
shapes:
  - id: a
    level: 1
    morph_states:
      - { color1: "#111111", color2: "#222222", border_radius: 8 }
      - { color1: "#333333", color2: "#444444", border_radius: 0 }
  - id: b
    level: 1
    morph_states:
      - { color1: "#555555", color2: "#666666", border_radius: 2 }
  - id: c
    level: 2
    morph_states:
      - { color1: "#777777", color2: "#888888", border_radius: 2 }
hints:
  - { level: 1, shape: a, position: { x: 400, y: 300 }, rotation: 15, scale: 1.5 }
`

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	p, err := ParsePack([]byte(testPackYAML))
	if err != nil {
		t.Fatalf("ParsePack() failed: %v", err)
	}
	c, err := New(p)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestCatalogLevels(t *testing.T) {
	c := loadTestCatalog(t)

	if c.Name() != "test" || c.Title() != "Test Pack" {
		t.Errorf("Name/Title = %q/%q", c.Name(), c.Title())
	}

	levels := c.Levels()
	if len(levels) != 2 {
		t.Fatalf("Levels() returned %d levels, want 2", len(levels))
	}
	if levels[0].ID != 1 || levels[1].ID != 2 {
		t.Errorf("Levels() not sorted by id: %d, %d", levels[0].ID, levels[1].ID)
	}
	if c.FirstLevel().ID != 1 {
		t.Errorf("FirstLevel() = %d, want 1", c.FirstLevel().ID)
	}

	l, err := c.Level(2)
	if err != nil {
		t.Fatalf("Level(2) failed: %v", err)
	}
	if l.TimeLimit != 90 || l.BaseScore != 1000 || l.Difficulty != DifficultyMedium {
		t.Errorf("Level(2) = %+v", l)
	}
	if l.Target.Rotation != 30 || l.Target.Width != 100 {
		t.Errorf("Level(2).Target = %+v", l.Target)
	}

	if _, err := c.Level(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("Level(3) error = %v, want ErrNotFound", err)
	}
}

func TestCatalogByDifficulty(t *testing.T) {
	c := loadTestCatalog(t)

	easy := c.ByDifficulty(DifficultyEasy)
	if len(easy) != 1 || easy[0].ID != 1 {
		t.Errorf("ByDifficulty(easy) = %+v", easy)
	}
	if got := c.ByDifficulty(DifficultyExpert); len(got) != 0 {
		t.Errorf("ByDifficulty(expert) = %+v, want none", got)
	}
}

func TestShapesForLevelAreReset(t *testing.T) {
	c := loadTestCatalog(t)

	shapes, err := c.ShapesForLevel(1)
	if err != nil {
		t.Fatalf("ShapesForLevel(1) failed: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("ShapesForLevel(1) returned %d shapes, want 2", len(shapes))
	}
	if shapes[0].ID != "a" || shapes[1].ID != "b" {
		t.Errorf("shapes not in pack order: %s, %s", shapes[0].ID, shapes[1].ID)
	}

	for _, s := range shapes {
		if s.Placed() || s.Rotation != 0 || s.Scale != 1 || s.MorphIndex != 0 {
			t.Errorf("shape %s not reset: %+v", s.ID, s)
		}
	}

	// Mutating a returned copy must not leak into the catalog
	shapes[0].Rotation = 90
	again, _ := c.ShapesForLevel(1)
	if again[0].Rotation != 0 {
		t.Error("ShapesForLevel should return independent copies")
	}

	none, err := c.ShapesForLevel(42)
	if err != nil || len(none) != 0 {
		t.Errorf("ShapesForLevel(42) = %v, %v; want empty, nil", none, err)
	}
}

func TestShapeMorph(t *testing.T) {
	c := loadTestCatalog(t)

	s, err := c.Shape("a")
	if err != nil {
		t.Fatalf("Shape(a) failed: %v", err)
	}
	if s.Morph().Color1 != "#111111" {
		t.Errorf("Morph() = %+v", s.Morph())
	}
	s.MorphIndex = 3 // wraps to 1
	if s.Morph().Color1 != "#333333" {
		t.Errorf("Morph() with index 3 = %+v", s.Morph())
	}

	if _, err := c.Shape("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Shape(zzz) error = %v, want ErrNotFound", err)
	}
}

func TestCatalogHints(t *testing.T) {
	c := loadTestCatalog(t)

	h, err := c.Hint(1, "a")
	if err != nil {
		t.Fatalf("Hint(1, a) failed: %v", err)
	}
	if h.Position.X != 400 || h.Position.Y != 300 || h.Rotation != 15 || h.Scale != 1.5 {
		t.Errorf("Hint(1, a) = %+v", h)
	}

	if _, err := c.Hint(1, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Hint(1, b) error = %v, want ErrNotFound", err)
	}
	if _, err := c.Hint(2, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Hint(2, a) error = %v, want ErrNotFound", err)
	}

	all, err := c.HintsForLevel(1)
	if err != nil || len(all) != 1 {
		t.Errorf("HintsForLevel(1) = %v, %v", all, err)
	}
	if _, err := c.HintsForLevel(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("HintsForLevel(2) error = %v, want ErrNotFound", err)
	}
}

func TestPackValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no levels",
			yaml:    "name: empty\n",
			wantErr: "no levels",
		},
		{
			name: "unknown difficulty",
			yaml: `
levels:
  - { id: 1, difficulty: nightmare, time_limit: 10, required_accuracy: 50, morph_speed: 100 }
`,
			wantErr: "unknown difficulty",
		},
		{
			name: "accuracy out of range",
			yaml: `
levels:
  - { id: 1, difficulty: easy, time_limit: 10, required_accuracy: 150, morph_speed: 100 }
`,
			wantErr: "required_accuracy",
		},
		{
			name: "shape with unknown level",
			yaml: `
levels:
  - { id: 1, difficulty: easy, time_limit: 10, required_accuracy: 50, morph_speed: 100 }
shapes:
  - { id: s, level: 9, morph_states: [ { color1: "#fff", color2: "#000" } ] }
`,
			wantErr: "unknown level 9",
		},
		{
			name: "shape without morph states",
			yaml: `
levels:
  - { id: 1, difficulty: easy, time_limit: 10, required_accuracy: 50, morph_speed: 100 }
shapes:
  - { id: s, level: 1 }
`,
			wantErr: "no morph states",
		},
		{
			name: "hint for shape of another level",
			yaml: `
levels:
  - { id: 1, difficulty: easy, time_limit: 10, required_accuracy: 50, morph_speed: 100 }
  - { id: 2, difficulty: easy, time_limit: 10, required_accuracy: 50, morph_speed: 100 }
shapes:
  - { id: s, level: 1, morph_states: [ { color1: "#fff", color2: "#000" } ] }
hints:
  - { level: 2, shape: s, position: { x: 1, y: 1 }, scale: 1 }
`,
			wantErr: "belongs to level 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePack([]byte(tt.yaml))
			if err == nil {
				t.Fatal("ParsePack() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParsePack() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(testPackYAML), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	p, err := LoadPack(path)
	if err != nil {
		t.Fatalf("LoadPack() failed: %v", err)
	}
	if len(p.Levels) != 2 || len(p.Shapes) != 3 {
		t.Errorf("LoadPack() = %d levels, %d shapes", len(p.Levels), len(p.Shapes))
	}

	if _, err := LoadPack(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadPack() of a missing file should fail")
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	if err != nil || d != DifficultyHard {
		t.Errorf("ParseDifficulty(Hard) = %q, %v", d, err)
	}
	if d.Title() != "Hard" {
		t.Errorf("Title() = %q", d.Title())
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("ParseDifficulty(impossible) should fail")
	}
}
