package session

import (
	"sync"

	"github.com/vovakirdan/shapesynth/internal/catalog"
)

// Event is a change notification published by a Session.
type Event interface {
	sessionEvent()
}

// LevelLoaded is published when a level is loaded, restarted or advanced to.
type LevelLoaded struct {
	Level catalog.Level
	State State
}

func (LevelLoaded) sessionEvent() {}

// StatusChanged is published on every status transition.
type StatusChanged struct {
	From, To Status
	State    State
}

func (StatusChanged) sessionEvent() {}

// Ticked is published after each countdown tick.
type Ticked struct {
	State State
}

func (Ticked) sessionEvent() {}

// Morphed is published after each morph cycle step.
type Morphed struct {
	Shapes []catalog.Shape
}

func (Morphed) sessionEvent() {}

// ShapeChanged is published when a shape is moved, rotated or scaled.
type ShapeChanged struct {
	Shape catalog.Shape
	State State
}

func (ShapeChanged) sessionEvent() {}

// SelectionChanged is published when the selected shape changes.
type SelectionChanged struct {
	ShapeID string
}

func (SelectionChanged) sessionEvent() {}

// HintShown is published when a hint is used.
type HintShown struct {
	Hint           catalog.Hint
	HintsRemaining int
}

func (HintShown) sessionEvent() {}

// HintCleared is published when a shown hint expires.
type HintCleared struct {
	ShapeID string
}

func (HintCleared) sessionEvent() {}

// DefaultEventBuffer is the subscription buffer size used when none is given.
const DefaultEventBuffer = 64

// Subscription receives session events over a buffered channel.
// Delivery never blocks the session: when the buffer is full the oldest
// event is dropped.
type Subscription struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
	closed   bool // guarded by the owning session's mutex
}

func newSubscription(size int) *Subscription {
	if size < 1 {
		size = DefaultEventBuffer
	}
	return &Subscription{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Events returns the event channel. It is closed once the subscription is
// released by the session.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when Close is called.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close stops delivery. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// send delivers evt without blocking. Caller holds the session mutex.
func (s *Subscription) send(evt Event) {
	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// release closes the event channel. Caller holds the session mutex.
func (s *Subscription) release() {
	if s.closed {
		return
	}
	s.closed = true
	s.Close()
	close(s.events)
}
