// Package session keeps one independent skill filter per visitor.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hephzaron/portfolio/internal/catalog"
	"github.com/hephzaron/portfolio/internal/skill"
	"github.com/hephzaron/portfolio/internal/view"
)

// Session is a visitor's UI state: the skill store and the views wired to it.
type Session struct {
	ID       string
	Store    *skill.Store
	Projects *view.ProjectsView
	Skills   *view.SkillsView

	mu sync.Mutex

	// guarded by Registry.mu
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session.
func (s *Session) Do(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Registry maps visitor ids to sessions.
type Registry struct {
	catalog *catalog.Catalog
	perPage int
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds sessions over c with perPage projects per page.
// Sessions unused for longer than ttl are removed by Sweep.
func NewRegistry(c *catalog.Catalog, perPage int, ttl time.Duration) *Registry {
	return &Registry{
		catalog:  c,
		perPage:  perPage,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating a new one when id is unknown or
// not a valid uuid. The returned id may differ from the one passed in.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		return s
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	s := r.newSession(id)
	s.lastSeen = now
	r.sessions[id] = s
	return s
}

func (r *Registry) newSession(id string) *Session {
	store := skill.NewStore()
	return &Session{
		ID:       id,
		Store:    store,
		Projects: view.NewProjectsView(r.catalog.Projects, r.perPage, store),
		Skills:   view.NewSkillsView(r.catalog, store),
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		// a session still inside Do is left for the next sweep
		if !s.lastSeen.Before(cutoff) || !s.mu.TryLock() {
			continue
		}
		s.Projects.Close()
		s.mu.Unlock()
		delete(r.sessions, id)
		removed++
	}
	return removed
}
