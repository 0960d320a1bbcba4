package logic

import (
	"sync"

	"github.com/draftlab/draft-api/internal/models"
)

// SessionStore is the process-wide registry of game sessions. All mutation
// goes through Mutate, which holds the write lock for the full
// read-modify-append, so concurrent request handlers cannot lose updates.
// Sessions live for the process lifetime; completed sessions are archived
// externally by the orchestrator.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.GameSession)}
}

// Create registers a new session under its id.
func (s *SessionStore) Create(sess *models.GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns a snapshot copy of a session, so readers never observe a
// session mid-mutation.
func (s *SessionStore) Get(id string) (*models.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	snapshot := cloneSession(sess)
	return &snapshot, nil
}

// Mutate runs fn against the live session while holding the write lock.
// fn returning an error leaves no obligation on the store; fn itself must
// not mutate on failure paths.
func (s *SessionStore) Mutate(id string, fn func(*models.GameSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(sess)
}

// List returns snapshot copies of all sessions.
func (s *SessionStore) List() []*models.GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.GameSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		snapshot := cloneSession(sess)
		out = append(out, &snapshot)
	}
	return out
}

func cloneSession(sess *models.GameSession) models.GameSession {
	snapshot := *sess
	snapshot.PlayerPicks = append([]string(nil), sess.PlayerPicks...)
	snapshot.PlayerBans = append([]string(nil), sess.PlayerBans...)
	snapshot.OpponentPicks = append([]string(nil), sess.OpponentPicks...)
	snapshot.OpponentBans = append([]string(nil), sess.OpponentBans...)
	snapshot.Moves = append([]models.GradedMove(nil), sess.Moves...)
	if sess.Achievements != nil {
		snapshot.Achievements = make(map[string]bool, len(sess.Achievements))
		for k, v := range sess.Achievements {
			snapshot.Achievements[k] = v
		}
	}
	if sess.CompletedAt != nil {
		t := *sess.CompletedAt
		snapshot.CompletedAt = &t
	}
	return snapshot
}
