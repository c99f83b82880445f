package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/interview-prep/backend/internal/catalog"
	"github.com/interview-prep/backend/internal/evaluator"
	"github.com/rs/zerolog/log"
)

// Registry holds the engines of concurrently running sessions. Each engine
// belongs to exactly one client flow, identified by the session id.
type Registry struct {
	source catalog.Source
	eval   evaluator.Client
	opts   []Option
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	engine   *Engine
	lastSeen time.Time
}

// NewRegistry creates engines with the given options. Do not pass WithRand:
// a *rand.Rand must not be shared between engines.
func NewRegistry(source catalog.Source, eval evaluator.Client, opts ...Option) *Registry {
	return &Registry{
		source:   source,
		eval:     eval,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

func (r *Registry) Create() (string, *Engine) {
	id := uuid.NewString()
	opts := append(append([]Option(nil), r.opts...), WithLogger(log.With().Str("session_id", id).Logger()))
	engine := NewEngine(r.source, r.eval, opts...)

	r.mu.Lock()
	r.sessions[id] = &registryEntry{engine: engine, lastSeen: r.now()}
	r.mu.Unlock()

	return id, engine
}

func (r *Registry) Get(id string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.engine, true
}

// Delete removes the session and cancels any evaluation still in flight.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		entry.engine.Reset()
	}
	return ok
}

// Sweep deletes sessions untouched for longer than maxIdle and returns how
// many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Engine
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry.engine)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.Reset()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
