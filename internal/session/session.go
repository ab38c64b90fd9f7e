// Package session implements the game session state machine: a single level
// attempt with its countdown, morph cycle, shape placements, hints and score.
//
// All operations and timer callbacks serialize on one mutex, so a Session may
// be driven from a UI goroutine while the scheduler fires on others.
package session

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/core"
	"github.com/vovakirdan/shapesynth/internal/match"
)

// LevelSource looks up level definitions.
type LevelSource interface {
	Level(id int) (catalog.Level, error)
}

// ShapeSource provides the initial shapes of a level.
type ShapeSource interface {
	ShapesForLevel(levelID int) ([]catalog.Shape, error)
}

// HintSource looks up optimal placements.
type HintSource interface {
	Hint(levelID int, shapeID string) (catalog.Hint, error)
}

// Session is one player's game. The zero value is not usable; use New.
type Session struct {
	levels LevelSource
	shapes ShapeSource
	hints  HintSource

	sched        clock.Scheduler
	eval         match.Evaluator
	log          *log.Logger
	hintBudget   int
	hintDuration time.Duration
	tickInterval time.Duration
	timeBonus    int
	rotationStep int

	mu       sync.Mutex
	loaded   bool
	closed   bool
	level    catalog.Level
	pieces   []catalog.Shape
	selected string
	hint     *catalog.Hint
	state    State

	// gen invalidates countdown and morph callbacks scheduled for an
	// earlier attempt; hintGen does the same for hint expiry.
	gen       uint64
	hintGen   uint64
	countdown clock.Timer
	morph     clock.Timer
	hintTimer clock.Timer

	subs []*Subscription
}

// New creates a session over the given providers. No level is loaded.
func New(levels LevelSource, shapes ShapeSource, hints HintSource, opts ...Option) *Session {
	s := &Session{
		levels:       levels,
		shapes:       shapes,
		hints:        hints,
		sched:        clock.NewReal(),
		eval:         match.Default(),
		log:          discardLogger(),
		hintBudget:   DefaultHintBudget,
		hintDuration: DefaultHintDuration,
		tickInterval: DefaultTickInterval,
		timeBonus:    DefaultTimeBonus,
		rotationStep: DefaultRotationStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromCatalog creates a session that reads levels, shapes and hints from c.
func NewFromCatalog(c *catalog.Catalog, opts ...Option) *Session {
	return New(c, c, c, opts...)
}

// Load makes levelID the current level in Idle status with its baseline
// score, full time and a fresh hint budget. On error the session is unchanged.
func (s *Session) Load(levelID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return opErr("load", ErrClosed)
	}

	lvl, pieces, err := s.fetchLevel(levelID)
	if err != nil {
		return opErr("load", err)
	}

	prev := s.state.Status
	s.stopTimers()
	s.clearHint()
	s.install(lvl, pieces, lvl.BaseScore, StatusIdle)
	s.log.Info("level loaded", "level", lvl.ID, "name", lvl.Name)
	s.publishStatus(prev, StatusIdle)
	return nil
}

// Start begins the countdown and morph cycle of a loaded, idle level.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready("start"); err != nil {
		return err
	}
	if s.state.Status != StatusIdle {
		return wrongStatus("start", s.state.Status)
	}

	s.setStatus(StatusActive)
	s.startTimers()
	s.recompute()
	return nil
}

// SelectShape marks a shape as the target of rotate, scale and hint.
func (s *Session) SelectShape(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready("select"); err != nil {
		return err
	}
	if st := s.state.Status; st != StatusIdle && st != StatusActive {
		return wrongStatus("select", st)
	}
	if s.indexOf(id) < 0 {
		return opErr("select", fmt.Errorf("shape %q: %w", id, ErrNotFound))
	}

	s.selected = id
	s.publish(SelectionChanged{ShapeID: id})
	if s.state.Status == StatusActive {
		s.recompute()
	}
	return nil
}

// MoveShape places a shape at p in canvas coordinates.
func (s *Session) MoveShape(id string, p core.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive("move"); err != nil {
		return err
	}
	if !finite(p.X) || !finite(p.Y) {
		return opErr("move", ErrBadInput)
	}
	i := s.indexOf(id)
	if i < 0 {
		return opErr("move", fmt.Errorf("shape %q: %w", id, ErrNotFound))
	}

	sh := s.pieces[i]
	sh.Position = core.PlacedAt(p.X, p.Y)
	s.replace(i, sh)
	return nil
}

// RotateSelected turns the selected shape by the rotation step.
func (s *Session) RotateSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.selectedIndex("rotate")
	if err != nil {
		return err
	}

	sh := s.pieces[i]
	sh.Rotation = core.WrapDegrees(sh.Rotation + s.rotationStep)
	s.replace(i, sh)
	return nil
}

// ScaleSelected changes the selected shape's scale by delta, clamped to
// [catalog.MinScale, catalog.MaxScale].
func (s *Session) ScaleSelected(delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.selectedIndex("scale")
	if err != nil {
		return err
	}
	if !finite(delta) {
		return opErr("scale", ErrBadInput)
	}

	sh := s.pieces[i]
	// Round to hundredths so repeated 0.1 steps land on exact bounds
	scaled := math.Round((sh.Scale+delta)*100) / 100
	sh.Scale = core.ClampF(scaled, catalog.MinScale, catalog.MaxScale)
	s.replace(i, sh)
	return nil
}

// RestartLevel reloads the current level from scratch and returns to Idle.
func (s *Session) RestartLevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready("restart"); err != nil {
		return err
	}

	pieces, err := s.shapes.ShapesForLevel(s.level.ID)
	if err != nil {
		return opErr("restart", err)
	}

	prev := s.state.Status
	s.stopTimers()
	s.clearHint()
	s.install(s.level, pieces, s.level.BaseScore, StatusIdle)
	s.log.Info("level restarted", "level", s.level.ID)
	s.publishStatus(prev, StatusIdle)
	return nil
}

// AdvanceLevel moves to the next level after a success, carrying the score
// plus a bonus for the time left. The next level starts immediately.
func (s *Session) AdvanceLevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready("advance"); err != nil {
		return err
	}

	next, pieces, err := s.fetchLevel(s.level.ID + 1)
	if err != nil {
		return opErr("advance", err)
	}
	if s.state.Status != StatusSuccess {
		return wrongStatus("advance", s.state.Status)
	}

	bonus := s.timeBonus * s.state.TimeRemaining
	score := s.state.Score + bonus

	s.stopTimers()
	s.clearHint()
	s.install(next, pieces, score, StatusSuccess)
	s.log.Info("level advanced", "level", next.ID, "bonus", bonus, "score", score)

	s.setStatus(StatusActive)
	s.startTimers()
	s.recompute()
	return nil
}

// UseHint spends one hint on shapeID, or on the selected shape when shapeID
// is empty. The hint is visible until the hint duration elapses or another
// hint replaces it.
func (s *Session) UseHint(shapeID string) (catalog.Hint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready("hint"); err != nil {
		return catalog.Hint{}, err
	}
	if st := s.state.Status; st != StatusIdle && st != StatusActive {
		return catalog.Hint{}, wrongStatus("hint", st)
	}
	if s.state.HintsRemaining <= 0 {
		return catalog.Hint{}, opErr("hint", ErrNoHints)
	}
	if shapeID == "" {
		shapeID = s.selected
	}
	if shapeID == "" {
		return catalog.Hint{}, opErr("hint", ErrNoSelection)
	}

	h, err := s.hints.Hint(s.level.ID, shapeID)
	if err != nil {
		return catalog.Hint{}, opErr("hint", err)
	}

	s.state.HintsRemaining--
	s.clearHint()
	s.hint = &h
	hg := s.hintGen
	s.hintTimer = s.sched.After(s.hintDuration, func() { s.expireHint(hg) })

	s.log.Debug("hint used", "level", h.LevelID, "shape", h.ShapeID, "remaining", s.state.HintsRemaining)
	s.publish(HintShown{Hint: h, HintsRemaining: s.state.HintsRemaining})
	return h, nil
}

// State returns a copy of the scoring state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HintBudget is the number of hints granted per level.
func (s *Session) HintBudget() int {
	return s.hintBudget
}

// CompletionBonus is the score a successful attempt carries into the next
// level for the time it has left. It is 0 unless the status is Success.
func (s *Session) CompletionBonus() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusSuccess {
		return 0
	}
	return s.timeBonus * s.state.TimeRemaining
}

// Snapshot returns a consistent copy of the session for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:    s.state,
		Level:    s.level,
		Loaded:   s.loaded,
		Shapes:   make([]catalog.Shape, len(s.pieces)),
		Selected: s.selected,
	}
	copy(snap.Shapes, s.pieces)
	if s.hint != nil {
		h := *s.hint
		snap.Hint = &h
	}
	return snap
}

// Subscribe registers for change events. buffer <= 0 selects
// DefaultEventBuffer. On a closed session the subscription is already
// released.
func (s *Session) Subscribe(buffer int) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscription(buffer)
	if s.closed {
		sub.release()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops every timer and releases all subscriptions. The session state
// stays readable; further operations fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.stopTimers()
	s.clearHint()
	for _, sub := range s.subs {
		sub.release()
	}
	s.subs = nil
}

// Everything below runs with s.mu held.

func (s *Session) fetchLevel(id int) (catalog.Level, []catalog.Shape, error) {
	lvl, err := s.levels.Level(id)
	if err != nil {
		return catalog.Level{}, nil, err
	}
	pieces, err := s.shapes.ShapesForLevel(id)
	if err != nil {
		return catalog.Level{}, nil, err
	}
	return lvl, pieces, nil
}

// install replaces the level, shapes and state in one step.
func (s *Session) install(lvl catalog.Level, pieces []catalog.Shape, score int, status Status) {
	s.loaded = true
	s.level = lvl
	s.pieces = pieces
	s.selected = ""
	s.state = State{
		LevelID:        lvl.ID,
		TimeRemaining:  lvl.TimeLimit,
		Score:          score,
		Status:         status,
		HintsRemaining: s.hintBudget,
	}
	s.publish(LevelLoaded{Level: lvl, State: s.state})
}

func (s *Session) ready(op string) error {
	if s.closed {
		return opErr(op, ErrClosed)
	}
	if !s.loaded {
		return opErr(op, ErrNotLoaded)
	}
	return nil
}

func (s *Session) requireActive(op string) error {
	if err := s.ready(op); err != nil {
		return err
	}
	if s.state.Status != StatusActive {
		return wrongStatus(op, s.state.Status)
	}
	return nil
}

func (s *Session) selectedIndex(op string) (int, error) {
	if err := s.requireActive(op); err != nil {
		return -1, err
	}
	if s.selected == "" {
		return -1, opErr(op, ErrNoSelection)
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return -1, opErr(op, fmt.Errorf("shape %q: %w", s.selected, ErrNotFound))
	}
	return i, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Session) indexOf(id string) int {
	for i, sh := range s.pieces {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps in an updated shape record and re-scores.
func (s *Session) replace(i int, sh catalog.Shape) {
	s.pieces[i] = sh
	s.recompute()
	s.publish(ShapeChanged{Shape: sh, State: s.state})
}

// recompute refreshes the match percentage and ends the attempt when the
// required accuracy is reached.
func (s *Session) recompute() {
	s.state.MatchPercentage = s.eval.Evaluate(s.pieces, s.level.Target)
	if s.state.Status == StatusActive && s.state.MatchPercentage >= s.level.RequiredAccuracy {
		s.stopTimers()
		s.setStatus(StatusSuccess)
	}
}

func (s *Session) setStatus(to Status) {
	from := s.state.Status
	if from == to {
		return
	}
	s.state.Status = to
	s.log.Debug("status changed", "level", s.level.ID, "from", from, "to", to)
	s.publishStatus(from, to)
}

func (s *Session) publishStatus(from, to Status) {
	if from == to {
		return
	}
	s.publish(StatusChanged{From: from, To: to, State: s.state})
}

func (s *Session) startTimers() {
	gen := s.gen
	s.countdown = s.sched.Every(s.tickInterval, func() { s.tick(gen) })
	morph := time.Duration(s.level.MorphSpeed) * time.Millisecond
	s.morph = s.sched.Every(morph, func() { s.advanceMorph(gen) })
}

// stopTimers cancels the countdown and morph cycle. Bumping gen turns any
// callback already in flight into a no-op.
func (s *Session) stopTimers() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.morph != nil {
		s.morph.Stop()
		s.morph = nil
	}
	s.gen++
}

func (s *Session) clearHint() {
	if s.hintTimer != nil {
		s.hintTimer.Stop()
		s.hintTimer = nil
	}
	s.hint = nil
	s.hintGen++
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state.Status != StatusActive {
		return
	}

	s.state.TimeRemaining--
	if s.state.TimeRemaining <= 0 {
		s.state.TimeRemaining = 0
		s.publish(Ticked{State: s.state})
		s.stopTimers()
		s.setStatus(StatusFailed)
		s.log.Info("time up", "level", s.level.ID, "match", s.state.MatchPercentage)
		return
	}
	s.publish(Ticked{State: s.state})
}

func (s *Session) advanceMorph(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state.Status != StatusActive {
		return
	}

	for i, sh := range s.pieces {
		if n := len(sh.MorphStates); n > 0 {
			sh.MorphIndex = (sh.MorphIndex + 1) % n
			s.pieces[i] = sh
		}
	}
	shapes := make([]catalog.Shape, len(s.pieces))
	copy(shapes, s.pieces)
	s.publish(Morphed{Shapes: shapes})
}

func (s *Session) expireHint(hg uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hg != s.hintGen || s.hint == nil {
		return
	}
	id := s.hint.ShapeID
	s.hint = nil
	s.hintTimer = nil
	s.publish(HintCleared{ShapeID: id})
}

func (s *Session) publish(evt Event) {
	live := s.subs[:0]
	for _, sub := range s.subs {
		if sub.isDone() {
			sub.release()
			continue
		}
		sub.send(evt)
		live = append(live, sub)
	}
	for i := len(live); i < len(s.subs); i++ {
		s.subs[i] = nil
	}
	s.subs = live
}
