package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

var errSessionExists = errors.New("session already exists")

// SessionStore keeps sessions in process memory. Each session is isolated by
// its ID and mutated only under the store lock.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.SessionState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionState),
	}
}

func (s *SessionStore) Create(_ context.Context, session domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return errSessionExists
	}

	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Update runs fn on a copy of the session and stores the copy only if fn
// succeeds. The returned state is the stored one.
func (s *SessionStore) Update(_ context.Context, id string, fn func(*domain.SessionState) error) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	if err := fn(&sess); err != nil {
		return s.sessions[id], err
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Sweep(_ context.Context, before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
