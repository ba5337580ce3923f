package api

import (
	"context"
	"sync"
	"time"

	"github.com/alexivanou/meteo-widget/internal/widget"
	"github.com/google/uuid"
)

type session struct {
	widget   *widget.Widget
	lastSeen time.Time
}

// SessionStore maps session ids to their own widget
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session

	newWidget func() *widget.Widget
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionStore creates a store; sessions idle for longer than ttl are swept
func NewSessionStore(newWidget func() *widget.Widget, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*session),
		newWidget: newWidget,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Get returns the widget of a live session and refreshes its idle timer
func (s *SessionStore) Get(id string) (*widget.Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.widget, true
}

// Create starts a new session with a fresh widget
func (s *SessionStore) Create() (string, *widget.Widget) {
	id := uuid.NewString()
	w := s.newWidget()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{widget: w, lastSeen: s.now()}
	return id, w
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes idle sessions and returns how many were removed
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*widget.Widget
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.widget)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
