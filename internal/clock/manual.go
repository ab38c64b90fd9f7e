package clock

import (
	"sync"
	"time"
)

// Manual is a deterministic virtual clock. Time only moves when Advance is
// called, and due callbacks run synchronously on the caller's goroutine in
// deadline order (registration order breaks ties).
//
// Callbacks may register or stop timers, including their own.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  uint64
	entries []*manualEntry
}

type manualEntry struct {
	id      uint64
	due     time.Duration
	period  time.Duration // 0 for one-shot timers
	fn      func()
	stopped bool
	m       *Manual
}

// NewManual returns a manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every implements Scheduler. Non-positive intervals never fire.
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	return m.add(d, d, fn)
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e := &manualEntry{
		id:     m.nextID,
		due:    m.now + d,
		period: period,
		fn:     fn,
		m:      m,
	}
	if d <= 0 && period > 0 {
		e.stopped = true
		return e
	}
	m.entries = append(m.entries, e)
	return e
}

// Pending returns the number of active timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		fn := m.nextDue(target)
		if fn == nil {
			break
		}
		fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// nextDue pops the earliest entry due at or before target, moving the clock
// to its deadline. Repeating entries are rescheduled before they run.
func (m *Manual) nextDue(target time.Duration) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.compact()

	var next *manualEntry
	for _, e := range m.entries {
		if e.due > target {
			continue
		}
		if next == nil || e.due < next.due || (e.due == next.due && e.id < next.id) {
			next = e
		}
	}
	if next == nil {
		return nil
	}

	m.now = next.due
	if next.period > 0 {
		next.due += next.period
	} else {
		next.stopped = true
	}
	return next.fn
}

// compact drops stopped entries. Caller holds mu.
func (m *Manual) compact() {
	live := m.entries[:0]
	for _, e := range m.entries {
		if !e.stopped {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(m.entries); i++ {
		m.entries[i] = nil
	}
	m.entries = live
}

func (e *manualEntry) Stop() {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	e.stopped = true
}
