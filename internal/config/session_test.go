package config

import (
	"testing"
	"time"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/session"
)

func TestScoringEvaluator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring = ScoringConfig{CenterX: 100, CenterY: 100, MaxDistance: 50}

	e := cfg.Scoring.Evaluator()
	shapes := []catalog.Shape{{ID: "x", Position: core.PlacedAt(125, 100)}}
	if got := e.Evaluate(shapes, catalog.TargetOutline{}); got != 50 {
		t.Fatalf("Evaluate() = %v, want 50", got)
	}
}

func TestSessionOptionsApplied(t *testing.T) {
	c := catalog.MustNew(catalog.Pack{
		Name:   "cfg",
		Levels: []catalog.Level{{ID: 1, TimeLimit: 30, RequiredAccuracy: 90, MorphSpeed: 1000}},
		Shapes: []catalog.YAMLShape{{ID: "s", Level: 1, MorphStates: []catalog.MorphState{{Color1: "#fff"}}}},
	})

	cfg := DefaultConfig()
	cfg.Session.HintBudget = 7
	cfg.Session.TickIntervalMS = 500

	m := clock.NewManual()
	s := session.NewFromCatalog(c, append(cfg.SessionOptions(), session.WithScheduler(m))...)
	defer s.Close()

	if err := s.Load(1); err != nil {
		t.Fatal(err)
	}
	if got := s.State().HintsRemaining; got != 7 {
		t.Fatalf("hints = %d, want 7", got)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	m.Advance(time.Second)
	if got := s.State().TimeRemaining; got != 28 {
		t.Fatalf("time remaining = %d, want 28 with a 500ms tick", got)
	}
}

func TestFrameInterval(t *testing.T) {
	if got := (UIConfig{FPS: 20}).FrameInterval(); got != 50*time.Millisecond {
		t.Fatalf("FrameInterval() = %v", got)
	}
	if got := (UIConfig{}).FrameInterval(); got != 50*time.Millisecond {
		t.Fatalf("zero FPS FrameInterval() = %v", got)
	}
}
