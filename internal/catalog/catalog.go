package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/shapesynth/internal/core"
)

// ErrNotFound is returned when a level, shape or hint does not exist.
var ErrNotFound = errors.New("not found")

// Catalog provides read-only lookups over a validated pack.
type Catalog struct {
	name   string
	title  string
	levels []Level // sorted by ID
	byID   map[int]int
	shapes map[int][]Shape // by level, in pack order
	shape  map[string]Shape
	hints  map[hintKey]Hint
}

type hintKey struct {
	level int
	shape string
}

// New builds a catalog from a pack. The pack is validated first.
func New(p Pack) (*Catalog, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		name:   p.Name,
		title:  p.Title,
		levels: make([]Level, len(p.Levels)),
		byID:   make(map[int]int, len(p.Levels)),
		shapes: make(map[int][]Shape),
		shape:  make(map[string]Shape, len(p.Shapes)),
		hints:  make(map[hintKey]Hint, len(p.Hints)),
	}

	copy(c.levels, p.Levels)
	sort.Slice(c.levels, func(i, j int) bool {
		return c.levels[i].ID < c.levels[j].ID
	})
	for i, l := range c.levels {
		c.byID[l.ID] = i
	}

	for _, ys := range p.Shapes {
		states := make([]MorphState, len(ys.MorphStates))
		copy(states, ys.MorphStates)
		s := Shape{
			ID:          ys.ID,
			LevelID:     ys.Level,
			MorphStates: states,
		}.Reset()
		c.shapes[s.LevelID] = append(c.shapes[s.LevelID], s)
		c.shape[s.ID] = s
	}

	for _, yh := range p.Hints {
		c.hints[hintKey{yh.Level, yh.Shape}] = Hint{
			LevelID:  yh.Level,
			ShapeID:  yh.Shape,
			Position: core.Pt(yh.Position.X, yh.Position.Y),
			Rotation: yh.Rotation,
			Scale:    yh.Scale,
		}
	}

	return c, nil
}

// MustNew is like New but panics on an invalid pack.
// Intended for packs embedded in the binary.
func MustNew(p Pack) *Catalog {
	c, err := New(p)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the pack name.
func (c *Catalog) Name() string {
	return c.name
}

// Title returns the display name of the pack, falling back to its name.
func (c *Catalog) Title() string {
	if c.title != "" {
		return c.title
	}
	return c.name
}

// Level returns the level with the given id.
func (c *Catalog) Level(id int) (Level, error) {
	i, ok := c.byID[id]
	if !ok {
		return Level{}, fmt.Errorf("level %d: %w", id, ErrNotFound)
	}
	return c.levels[i], nil
}

// Levels returns all levels ordered by id.
func (c *Catalog) Levels() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)
	return out
}

// LevelCount returns the number of levels in the catalog.
func (c *Catalog) LevelCount() int {
	return len(c.levels)
}

// FirstLevel returns the level with the lowest id.
func (c *Catalog) FirstLevel() Level {
	return c.levels[0]
}

// ByDifficulty returns the levels of the given difficulty ordered by id.
func (c *Catalog) ByDifficulty(d Difficulty) []Level {
	var out []Level
	for _, l := range c.levels {
		if l.Difficulty == d {
			out = append(out, l)
		}
	}
	return out
}

// ShapesForLevel returns fresh copies of a level's shapes, reset to unplaced,
// rotation 0, scale 1 and morph index 0. A level without shapes yields an
// empty slice.
func (c *Catalog) ShapesForLevel(levelID int) ([]Shape, error) {
	src := c.shapes[levelID]
	out := make([]Shape, len(src))
	for i, s := range src {
		out[i] = s.Reset()
	}
	return out, nil
}

// Shape returns a single shape by id, reset.
func (c *Catalog) Shape(id string) (Shape, error) {
	s, ok := c.shape[id]
	if !ok {
		return Shape{}, fmt.Errorf("shape %q: %w", id, ErrNotFound)
	}
	return s.Reset(), nil
}

// Hint returns the optimal placement of a shape within a level.
func (c *Catalog) Hint(levelID int, shapeID string) (Hint, error) {
	h, ok := c.hints[hintKey{levelID, shapeID}]
	if !ok {
		return Hint{}, fmt.Errorf("hint for shape %q in level %d: %w", shapeID, levelID, ErrNotFound)
	}
	return h, nil
}

// HintsForLevel returns every hint of a level in shape order.
func (c *Catalog) HintsForLevel(levelID int) ([]Hint, error) {
	if _, ok := c.byID[levelID]; !ok {
		return nil, fmt.Errorf("hints for level %d: %w", levelID, ErrNotFound)
	}
	var out []Hint
	for _, s := range c.shapes[levelID] {
		if h, ok := c.hints[hintKey{levelID, s.ID}]; ok {
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("hints for level %d: %w", levelID, ErrNotFound)
	}
	return out, nil
}
