package tui

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/clock"
	"github.com/vovakirdan/shapesynth/internal/config"
	"github.com/vovakirdan/shapesynth/internal/session"
	"github.com/vovakirdan/shapesynth/internal/storage"
)

// Env bundles what every screen of one player's connection needs.
type Env struct {
	Catalog   *catalog.Catalog
	Store     *storage.Store // nil disables run history
	Config    config.Config
	Logger    *log.Logger
	Player    string
	Scheduler clock.Scheduler // nil selects the runtime clock

	sessions *sessionSet
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// newSession creates a game session configured from e. Sessions are tracked
// so the owner of the Env can stop their timers when the program exits.
func (e Env) newSession() *session.Session {
	opts := e.Config.SessionOptions()
	opts = append(opts, session.WithLogger(e.logger().With("player", e.Player)))
	if e.Scheduler != nil {
		opts = append(opts, session.WithScheduler(e.Scheduler))
	}
	s := session.NewFromCatalog(e.Catalog, opts...)
	if e.sessions != nil {
		e.sessions.add(s)
	}
	return s
}

// withTracking returns a copy of e whose sessions are recorded in set.
func (e Env) withTracking(set *sessionSet) Env {
	e.sessions = set
	return e
}

// sessionSet records the sessions created for one program run.
type sessionSet struct {
	mu   sync.Mutex
	list []*session.Session
}

func (s *sessionSet) add(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, sess)
}

// closeAll stops every recorded session. Safe to call more than once.
func (s *sessionSet) closeAll() {
	s.mu.Lock()
	list := s.list
	s.list = nil
	s.mu.Unlock()

	for _, sess := range list {
		sess.Close()
	}
}
