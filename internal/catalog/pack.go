package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is the on-disk representation of a level pack.
type Pack struct {
	Name   string      `yaml:"name"`
	Title  string      `yaml:"title"`
	Levels []Level     `yaml:"levels"`
	Shapes []YAMLShape `yaml:"shapes"`
	Hints  []YAMLHint  `yaml:"hints"`
}

// YAMLShape is a shape definition as written in a pack file.
// Placement fields are not stored; shapes always load unplaced.
type YAMLShape struct {
	ID          string       `yaml:"id"`
	Level       int          `yaml:"level"`
	MorphStates []MorphState `yaml:"morph_states"`
}

// YAMLHint is a hint definition as written in a pack file.
type YAMLHint struct {
	Level    int       `yaml:"level"`
	Shape    string    `yaml:"shape"`
	Position YAMLPoint `yaml:"position"`
	Rotation int       `yaml:"rotation"`
	Scale    float64   `yaml:"scale"`
}

// YAMLPoint is a point in YAML format.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ParsePack decodes and validates a pack from YAML.
func ParsePack(data []byte) (Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pack{}, fmt.Errorf("catalog: parse pack: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Pack{}, err
	}
	return p, nil
}

// LoadPack reads a pack file from disk.
func LoadPack(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("catalog: read pack %s: %w", path, err)
	}
	p, err := ParsePack(data)
	if err != nil {
		return Pack{}, fmt.Errorf("%w (file %s)", err, path)
	}
	return p, nil
}

// Validate checks the pack for structural errors. All problems are reported
// together so a broken pack can be fixed in one pass.
func (p Pack) Validate() error {
	var errs []error

	if len(p.Levels) == 0 {
		errs = append(errs, errors.New("pack has no levels"))
	}

	levels := make(map[int]bool, len(p.Levels))
	for _, l := range p.Levels {
		if levels[l.ID] {
			errs = append(errs, fmt.Errorf("duplicate level id %d", l.ID))
		}
		levels[l.ID] = true

		if l.TimeLimit <= 0 {
			errs = append(errs, fmt.Errorf("level %d: time_limit must be positive", l.ID))
		}
		if l.RequiredAccuracy < 0 || l.RequiredAccuracy > 100 {
			errs = append(errs, fmt.Errorf("level %d: required_accuracy %.1f out of range 0-100", l.ID, l.RequiredAccuracy))
		}
		if l.MorphSpeed <= 0 {
			errs = append(errs, fmt.Errorf("level %d: morph_speed must be positive", l.ID))
		}
		if l.BaseScore < 0 {
			errs = append(errs, fmt.Errorf("level %d: base_score must not be negative", l.ID))
		}
	}

	shapes := make(map[string]int, len(p.Shapes))
	for _, s := range p.Shapes {
		if s.ID == "" {
			errs = append(errs, errors.New("shape with empty id"))
			continue
		}
		if _, dup := shapes[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate shape id %q", s.ID))
		}
		shapes[s.ID] = s.Level

		if !levels[s.Level] {
			errs = append(errs, fmt.Errorf("shape %q: unknown level %d", s.ID, s.Level))
		}
		if len(s.MorphStates) == 0 {
			errs = append(errs, fmt.Errorf("shape %q: no morph states", s.ID))
		}
	}

	for _, h := range p.Hints {
		lvl, ok := shapes[h.Shape]
		if !ok {
			errs = append(errs, fmt.Errorf("hint: unknown shape %q", h.Shape))
			continue
		}
		if lvl != h.Level {
			errs = append(errs, fmt.Errorf("hint: shape %q belongs to level %d, not %d", h.Shape, lvl, h.Level))
		}
		if h.Scale < MinScale || h.Scale > MaxScale {
			errs = append(errs, fmt.Errorf("hint for %q: scale %.2f out of range", h.Shape, h.Scale))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog: invalid pack %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}
