// Package clock provides the cancelable interval and timeout registration
// the game session runs its countdown, morph cycle and hint expiry on.
package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
// Stop is idempotent and safe to call from inside the callback.
type Timer interface {
	Stop()
}

// Scheduler registers callbacks on a clock.
type Scheduler interface {
	// Every calls fn repeatedly, d apart, until the timer is stopped.
	Every(d time.Duration, fn func()) Timer

	// After calls fn once after d unless the timer is stopped first.
	After(d time.Duration, fn func()) Timer
}

// Real schedules callbacks on the runtime clock. Callbacks run on their own
// goroutines; callers must synchronize the state they touch.
type Real struct{}

// NewReal returns a scheduler backed by the runtime clock.
func NewReal() Real {
	return Real{}
}

// Every implements Scheduler. Non-positive intervals never fire.
func (Real) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		return realTimer{}
	}
	t := &realTicker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

// After implements Scheduler.
func (Real) After(d time.Duration, fn func()) Timer {
	return realTimer{time.AfterFunc(d, fn)}
}

type realTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *realTicker) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a pending tick; prefer done
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *realTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() {
	if r.t != nil {
		r.t.Stop()
	}
}
