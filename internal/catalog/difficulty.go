package catalog

import (
	"fmt"
	"strings"
)

// Difficulty is the advertised difficulty of a level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists the known difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// ParseDifficulty parses a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("catalog: unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties() {
		if d == known {
			return true
		}
	}
	return false
}

// Title returns the display name of the difficulty.
func (d Difficulty) Title() string {
	if d == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// UnmarshalText implements encoding.TextUnmarshaler so YAML values are validated on load.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
