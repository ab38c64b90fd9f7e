package session

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/core"
)

var center = core.Pt(400, 300)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Pack{
		Name: "test",
		Levels: []catalog.Level{
			{ID: 1, Name: "one", Difficulty: catalog.DifficultyEasy, TimeLimit: 60, RequiredAccuracy: 70, MorphSpeed: 2000, BaseScore: 0},
			{ID: 2, Name: "two", Difficulty: catalog.DifficultyEasy, TimeLimit: 90, RequiredAccuracy: 75, MorphSpeed: 1800, BaseScore: 1000},
		},
		Shapes: []catalog.YAMLShape{
			{ID: "a", Level: 1, MorphStates: []catalog.MorphState{{Color1: "#111111"}, {Color1: "#222222"}}},
			{ID: "b", Level: 1, MorphStates: []catalog.MorphState{{Color1: "#333333"}, {Color1: "#444444"}, {Color1: "#555555"}}},
			{ID: "c", Level: 2, MorphStates: []catalog.MorphState{{Color1: "#666666"}}},
		},
		Hints: []catalog.YAMLHint{
			{Level: 1, Shape: "a", Position: catalog.YAMLPoint{X: 400, Y: 300}, Scale: 1},
			{Level: 2, Shape: "c", Position: catalog.YAMLPoint{X: 400, Y: 300}, Scale: 1},
		},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *clock.Manual) {
	t.Helper()
	m := clock.NewManual()
	s := NewFromCatalog(testCatalog(t), append([]Option{WithScheduler(m)}, opts...)...)
	t.Cleanup(s.Close)
	return s, m
}

func mustDo(t *testing.T, op string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", op, err)
	}
}

func startLevel(t *testing.T, s *Session, id int) {
	t.Helper()
	mustDo(t, "Load", s.Load(id))
	mustDo(t, "Start", s.Start())
}

func TestLoadBaseline(t *testing.T) {
	s, _ := newTestSession(t)
	mustDo(t, "Load", s.Load(2))

	snap := s.Snapshot()
	want := State{LevelID: 2, TimeRemaining: 90, Score: 1000, Status: StatusIdle, HintsRemaining: 3}
	if snap.State != want {
		t.Fatalf("state = %+v, want %+v", snap.State, want)
	}
	if len(snap.Shapes) != 1 || snap.Shapes[0].Placed() {
		t.Fatalf("shapes = %+v, want one unplaced shape", snap.Shapes)
	}
}

func TestLoadNotFoundLeavesSessionUnchanged(t *testing.T) {
	s, _ := newTestSession(t)
	mustDo(t, "Load", s.Load(1))
	before := s.State()

	err := s.Load(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(42) error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatal("session.ErrNotFound should match catalog.ErrNotFound")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "load" {
		t.Fatalf("want *OpError with op load, got %#v", err)
	}
	if got := s.State(); got != before {
		t.Fatalf("state changed: %+v -> %+v", before, got)
	}
}

func TestStartRequiresIdleLoadedLevel(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.Start(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Start() without level error = %v", err)
	}

	startLevel(t, s, 1)
	if got := s.State().Status; got != StatusActive {
		t.Fatalf("status = %v, want active", got)
	}
	if err := s.Start(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("second Start() error = %v", err)
	}
}

func TestControlsRequireActive(t *testing.T) {
	s, _ := newTestSession(t)
	mustDo(t, "Load", s.Load(1))
	mustDo(t, "Select", s.SelectShape("a"))

	tests := []struct {
		name string
		op   func() error
	}{
		{"move", func() error { return s.MoveShape("a", center) }},
		{"rotate", s.RotateSelected},
		{"scale", func() error { return s.ScaleSelected(0.1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrInvalidOperation) {
				t.Fatalf("error = %v, want ErrInvalidOperation", err)
			}
		})
	}
	if s.Snapshot().Shapes[0].Placed() {
		t.Fatal("shape moved while idle")
	}
}

func TestRotateAndScaleNeedSelection(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)

	if err := s.RotateSelected(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("RotateSelected() error = %v", err)
	}
	if err := s.ScaleSelected(0.1); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("ScaleSelected() error = %v", err)
	}
}

func TestSelectUnknownShape(t *testing.T) {
	s, _ := newTestSession(t)
	mustDo(t, "Load", s.Load(1))
	if err := s.SelectShape("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SelectShape() error = %v", err)
	}
	if s.Snapshot().Selected != "" {
		t.Fatal("selection changed")
	}
}

func TestRotateWraps(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)
	mustDo(t, "Select", s.SelectShape("a"))

	for i := 0; i < 25; i++ {
		mustDo(t, "Rotate", s.RotateSelected())
	}
	// 25 * 15 = 375
	if got := s.Snapshot().Shapes[0].Rotation; got != 15 {
		t.Fatalf("rotation = %d, want 15", got)
	}
}

func TestScaleClamps(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)
	mustDo(t, "Select", s.SelectShape("a"))

	for i := 0; i < 20; i++ {
		mustDo(t, "Scale", s.ScaleSelected(0.1))
	}
	if got := s.Snapshot().Shapes[0].Scale; got != catalog.MaxScale {
		t.Fatalf("scale = %v, want %v", got, catalog.MaxScale)
	}
	for i := 0; i < 30; i++ {
		mustDo(t, "Scale", s.ScaleSelected(-0.1))
	}
	if got := s.Snapshot().Shapes[0].Scale; got != catalog.MinScale {
		t.Fatalf("scale = %v, want %v", got, catalog.MinScale)
	}
	mustDo(t, "Scale", s.ScaleSelected(0.1))
	if got := s.Snapshot().Shapes[0].Scale; got != 0.6 {
		t.Fatalf("scale = %v, want 0.6", got)
	}
}

func TestNonFiniteInputRejected(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)
	mustDo(t, "Move", s.MoveShape("b", core.Pt(550, 300)))
	mustDo(t, "Select", s.SelectShape("b"))
	before := s.Snapshot()

	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name string
		op   func() error
	}{
		{"move nan x", func() error { return s.MoveShape("a", core.Pt(nan, 300)) }},
		{"move nan y", func() error { return s.MoveShape("a", core.Pt(400, nan)) }},
		{"move inf", func() error { return s.MoveShape("b", core.Pt(-inf, 300)) }},
		{"scale nan", func() error { return s.ScaleSelected(nan) }},
		{"scale inf", func() error { return s.ScaleSelected(inf) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrBadInput) || !errors.Is(err, ErrInvalidOperation) {
				t.Fatalf("error = %v, want ErrBadInput", err)
			}
		})
	}

	after := s.Snapshot()
	if after.State != before.State {
		t.Errorf("state changed: %+v -> %+v", before.State, after.State)
	}
	if math.IsNaN(after.State.MatchPercentage) {
		t.Error("match percentage is NaN")
	}
	for i := range after.Shapes {
		if after.Shapes[i].Position != before.Shapes[i].Position || after.Shapes[i].Scale != before.Shapes[i].Scale {
			t.Errorf("shape %s changed: %+v -> %+v", after.Shapes[i].ID, before.Shapes[i], after.Shapes[i])
		}
	}
}

func TestRejectionReasons(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Start()
	if !errors.Is(err, ErrNotLoaded) || !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Start() before Load error = %v, want ErrNotLoaded", err)
	}

	mustDo(t, "Load", s.Load(1))
	err = s.RotateSelected()
	if st, ok := StatusOf(err); !ok || st != StatusIdle {
		t.Errorf("StatusOf(%v) = %v, %v; want idle", err, st, ok)
	}
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("status rejection should match ErrInvalidOperation: %v", err)
	}
	var op *OpError
	if !errors.As(err, &op) || op.Op != "rotate" {
		t.Errorf("error = %#v, want OpError for rotate", err)
	}

	if _, err := s.UseHint(""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("UseHint without selection error = %v, want ErrNoSelection", err)
	}
	if _, ok := StatusOf(ErrNoSelection); ok {
		t.Error("ErrNoSelection is not a status rejection")
	}

	s.Close()
	if err := s.Load(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close error = %v, want ErrClosed", err)
	}
}

func TestCompletionBonus(t *testing.T) {
	s, clk := newTestSession(t)
	startLevel(t, s, 1)

	if got := s.CompletionBonus(); got != 0 {
		t.Errorf("bonus while active = %d, want 0", got)
	}
	clk.Advance(5 * time.Second)
	mustDo(t, "Move", s.MoveShape("a", center))
	if got, want := s.CompletionBonus(), DefaultTimeBonus*55; got != want {
		t.Errorf("bonus after success = %d, want %d", got, want)
	}
	if got := s.HintBudget(); got != DefaultHintBudget {
		t.Errorf("HintBudget() = %d, want %d", got, DefaultHintBudget)
	}
}

// Level 1, one shape dropped on the target center.
func TestScenarioPlaceOnCenterSucceeds(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)

	mustDo(t, "Move", s.MoveShape("a", center))

	st := s.State()
	if st.MatchPercentage != 100 {
		t.Fatalf("match = %v, want 100", st.MatchPercentage)
	}
	if st.Status != StatusSuccess {
		t.Fatalf("status = %v, want success", st.Status)
	}

	// Timers are stopped: time no longer runs
	m.Advance(10 * time.Second)
	if got := s.State().TimeRemaining; got != 60 {
		t.Fatalf("time remaining = %d after success, want 60", got)
	}
	if m.Pending() != 0 {
		t.Fatalf("pending timers = %d", m.Pending())
	}
}

// Level 1, nothing placed, the countdown runs out.
func TestScenarioTimeoutFails(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)

	m.Advance(59 * time.Second)
	st := s.State()
	if st.TimeRemaining != 1 || st.Status != StatusActive {
		t.Fatalf("after 59 ticks: %+v", st)
	}

	m.Advance(time.Second)
	st = s.State()
	if st.TimeRemaining != 0 || st.Status != StatusFailed {
		t.Fatalf("after 60 ticks: %+v", st)
	}

	m.Advance(30 * time.Second)
	if got := s.State(); got != st {
		t.Fatalf("state changed after failure: %+v", got)
	}
}

func TestScenarioAdvancePastLastLevel(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)
	mustDo(t, "Move", s.MoveShape("a", center))
	mustDo(t, "Advance", s.AdvanceLevel())
	m.Advance(5 * time.Second)
	mustDo(t, "Move", s.MoveShape("c", center))

	before := s.Snapshot()
	if before.State.Status != StatusSuccess || before.State.LevelID != 2 {
		t.Fatalf("setup state = %+v", before.State)
	}

	err := s.AdvanceLevel()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("AdvanceLevel() error = %v, want ErrNotFound", err)
	}
	if got := s.State(); got != before.State {
		t.Fatalf("state changed: %+v -> %+v", before.State, got)
	}
}

func TestScenarioHintWithEmptyBudget(t *testing.T) {
	s, _ := newTestSession(t, WithHintBudget(0))
	mustDo(t, "Load", s.Load(1))
	mustDo(t, "Select", s.SelectShape("a"))
	before := s.State()

	if _, err := s.UseHint(""); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("UseHint() error = %v, want ErrInvalidOperation", err)
	}
	if got := s.State(); got != before {
		t.Fatalf("state changed: %+v -> %+v", before, got)
	}
	if s.Snapshot().Hint != nil {
		t.Fatal("hint shown")
	}
}

func TestScenarioRestartLevelTwo(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)
	mustDo(t, "Move", s.MoveShape("a", center))
	mustDo(t, "Advance", s.AdvanceLevel())

	m.Advance(3 * time.Second)
	mustDo(t, "Move", s.MoveShape("c", core.Pt(600, 300)))
	mustDo(t, "Select", s.SelectShape("c"))
	if _, err := s.UseHint(""); err != nil {
		t.Fatalf("UseHint() error = %v", err)
	}

	mustDo(t, "Restart", s.RestartLevel())

	snap := s.Snapshot()
	want := State{LevelID: 2, TimeRemaining: 90, Score: 1000, Status: StatusIdle, HintsRemaining: 3}
	if snap.State != want {
		t.Fatalf("state = %+v, want %+v", snap.State, want)
	}
	for _, sh := range snap.Shapes {
		if sh.Placed() {
			t.Fatalf("shape %s still placed", sh.ID)
		}
	}
	if snap.Selected != "" || snap.Hint != nil {
		t.Fatalf("selection %q / hint %v not cleared", snap.Selected, snap.Hint)
	}
	if m.Pending() != 0 {
		t.Fatalf("pending timers = %d", m.Pending())
	}
}

func TestAdvanceLevelScoring(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)
	m.Advance(12 * time.Second)
	mustDo(t, "Select", s.SelectShape("a"))
	if _, err := s.UseHint(""); err != nil {
		t.Fatalf("UseHint() error = %v", err)
	}
	mustDo(t, "Move", s.MoveShape("a", center))

	mustDo(t, "Advance", s.AdvanceLevel())

	st := s.State()
	want := State{LevelID: 2, TimeRemaining: 90, Score: 10 * 48, Status: StatusActive, HintsRemaining: 3}
	if st != want {
		t.Fatalf("state = %+v, want %+v", st, want)
	}

	m.Advance(time.Second)
	if got := s.State().TimeRemaining; got != 89 {
		t.Fatalf("new level countdown not running: %d", got)
	}
}

func TestAdvanceRequiresSuccess(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)
	before := s.State()

	if err := s.AdvanceLevel(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("AdvanceLevel() error = %v, want ErrInvalidOperation", err)
	}
	if got := s.State(); got != before {
		t.Fatalf("state changed: %+v", got)
	}
}

func TestTickDecrementsByOne(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)

	for want := 59; want >= 55; want-- {
		m.Advance(time.Second)
		if got := s.State().TimeRemaining; got != want {
			t.Fatalf("time remaining = %d, want %d", got, want)
		}
	}
}

func TestSuccessOnlyWhenAccuracyReached(t *testing.T) {
	tests := []struct {
		name   string
		pos    core.Point
		status Status
	}{
		{"on center", center, StatusSuccess},
		{"exactly required", core.Pt(460, 300), StatusSuccess}, // 70%
		{"just short", core.Pt(461, 300), StatusActive},
		{"far away", core.Pt(700, 300), StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			startLevel(t, s, 1)
			mustDo(t, "Move", s.MoveShape("a", tt.pos))
			if got := s.State().Status; got != tt.status {
				t.Fatalf("status = %v, want %v (match %.2f)", got, tt.status, s.State().MatchPercentage)
			}
		})
	}
}

func TestMatchIsMeanOfPlacedShapes(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)

	mustDo(t, "Move", s.MoveShape("a", core.Pt(600, 300)))
	mustDo(t, "Move", s.MoveShape("b", core.Pt(500, 300)))
	// (0 + 50) / 2
	st := s.State()
	if st.MatchPercentage != 25 || st.Status != StatusActive {
		t.Fatalf("state = %+v", st)
	}
}

func TestHintBudget(t *testing.T) {
	s, _ := newTestSession(t)
	mustDo(t, "Load", s.Load(1))

	// no selection
	if _, err := s.UseHint(""); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("UseHint() without selection error = %v", err)
	}
	// no hint for b
	if _, err := s.UseHint("b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UseHint(b) error = %v", err)
	}
	if got := s.State().HintsRemaining; got != 3 {
		t.Fatalf("failed hints consumed budget: %d", got)
	}

	for want := 2; want >= 0; want-- {
		h, err := s.UseHint("a")
		if err != nil {
			t.Fatalf("UseHint(a) error = %v", err)
		}
		if h.Position != center {
			t.Fatalf("hint position = %+v", h.Position)
		}
		if got := s.State().HintsRemaining; got != want {
			t.Fatalf("hints remaining = %d, want %d", got, want)
		}
	}
	if _, err := s.UseHint("a"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("UseHint() on empty budget error = %v", err)
	}
	if got := s.State().HintsRemaining; got != 0 {
		t.Fatalf("hints remaining = %d", got)
	}
}

func TestHintExpiresAndIsReplaced(t *testing.T) {
	s, m := newTestSession(t)
	mustDo(t, "Load", s.Load(1))
	mustDo(t, "Select", s.SelectShape("a"))

	if _, err := s.UseHint(""); err != nil {
		t.Fatal(err)
	}
	m.Advance(3 * time.Second)
	if _, err := s.UseHint(""); err != nil {
		t.Fatal(err)
	}

	// First timer would have fired at 4s; the replacement runs until 7s
	m.Advance(2 * time.Second)
	if s.Snapshot().Hint == nil {
		t.Fatal("replaced hint cleared by the stale timer")
	}
	m.Advance(2 * time.Second)
	if s.Snapshot().Hint != nil {
		t.Fatal("hint still shown after its duration")
	}
}

func TestMorphCycle(t *testing.T) {
	s, m := newTestSession(t)
	startLevel(t, s, 1)

	m.Advance(2 * time.Second)
	snap := s.Snapshot()
	if snap.Shapes[0].MorphIndex != 1 || snap.Shapes[1].MorphIndex != 1 {
		t.Fatalf("after one morph: %d %d", snap.Shapes[0].MorphIndex, snap.Shapes[1].MorphIndex)
	}
	m.Advance(4 * time.Second)
	snap = s.Snapshot()
	// a has 2 states, b has 3
	if snap.Shapes[0].MorphIndex != 1 || snap.Shapes[1].MorphIndex != 0 {
		t.Fatalf("after three morphs: %d %d", snap.Shapes[0].MorphIndex, snap.Shapes[1].MorphIndex)
	}
}

// A tick from an earlier attempt must not touch the restarted one.
func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	m := clock.NewManual()
	rec := &recordingScheduler{Manual: m}
	s := NewFromCatalog(testCatalog(t), WithScheduler(rec))
	defer s.Close()

	startLevel(t, s, 1)
	staleTick := rec.every[0]

	mustDo(t, "Restart", s.RestartLevel())
	mustDo(t, "Start", s.Start())

	staleTick()
	if got := s.State().TimeRemaining; got != 60 {
		t.Fatalf("stale tick applied: time remaining = %d", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSession(t)
	startLevel(t, s, 1)

	snap := s.Snapshot()
	snap.Shapes[0].Position = core.PlacedAt(400, 300)
	if s.Snapshot().Shapes[0].Placed() {
		t.Fatal("snapshot aliases session shapes")
	}
}

func TestEvents(t *testing.T) {
	s, _ := newTestSession(t)
	sub := s.Subscribe(16)

	startLevel(t, s, 1)
	mustDo(t, "Move", s.MoveShape("a", center))

	var got []string
	for len(sub.Events()) > 0 {
		switch e := (<-sub.Events()).(type) {
		case LevelLoaded:
			got = append(got, "loaded")
		case StatusChanged:
			got = append(got, e.To.String())
		case ShapeChanged:
			got = append(got, "shape:"+e.Shape.ID)
		}
	}
	want := []string{"loaded", "active", "success", "shape:a"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestSubscriptionDropsOldest(t *testing.T) {
	s, _ := newTestSession(t)
	sub := s.Subscribe(1)

	mustDo(t, "Load", s.Load(1))
	mustDo(t, "Select", s.SelectShape("b"))

	evt := <-sub.Events()
	if sel, ok := evt.(SelectionChanged); !ok || sel.ShapeID != "b" {
		t.Fatalf("event = %#v, want latest selection", evt)
	}
}

func TestCloseReleasesSubscriptionsAndTimers(t *testing.T) {
	s, m := newTestSession(t)
	sub := s.Subscribe(0)
	startLevel(t, s, 1)

	s.Close()
	s.Close()

	for range sub.Events() {
	}
	if m.Pending() != 0 {
		t.Fatalf("pending timers = %d", m.Pending())
	}
	if err := s.MoveShape("a", center); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("MoveShape() after Close error = %v", err)
	}
}

type recordingScheduler struct {
	*clock.Manual
	every []func()
}

func (r *recordingScheduler) Every(d time.Duration, fn func()) clock.Timer {
	r.every = append(r.every, fn)
	return r.Manual.Every(d, fn)
}
