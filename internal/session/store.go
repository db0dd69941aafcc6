// Package session holds the per-visitor training state.
package session

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/google/uuid"
)

// Store is the mutable state of one visitor: signed-in user, the training
// configuration being built, the remote chat registration, the live
// conversation and the completed training sessions.
//
// Nothing is persisted; a Store lives as long as its Registry keeps it.
type Store struct {
	id string

	mu           sync.RWMutex
	user         *domain.User
	config       *domain.TrainingConfig
	remote       json.RawMessage
	conversation *domain.Conversation
	sessions     []domain.TrainingSession
}

// NewStore returns an empty store with a random id.
func NewStore() *Store {
	return NewStoreWithID(uuid.NewString())
}

// NewStoreWithID returns an empty store identified by id.
func NewStoreWithID(id string) *Store {
	return &Store{id: id}
}

// ID identifies the store in logs. It never changes.
func (s *Store) ID() string {
	return s.id
}

// SetCurrentUser replaces the signed-in user. nil signs out.
func (s *Store) SetCurrentUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// CurrentUser returns the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetCurrentConfig replaces the training configuration. Callers merge
// partial updates themselves before writing.
func (s *Store) SetCurrentConfig(cfg *domain.TrainingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Clone()
}

// CurrentConfig returns a copy of the training configuration, or nil.
func (s *Store) CurrentConfig() *domain.TrainingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// SetCurrentSession replaces the most recent remote registration result.
func (s *Store) SetCurrentSession(handle json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = slices.Clone(handle)
}

// CurrentSession returns the most recent remote registration result, or nil.
func (s *Store) CurrentSession() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.remote)
}

// SetConversation replaces the live conversation. nil clears it.
func (s *Store) SetConversation(conv *domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv == nil {
		s.conversation = nil
		return
	}
	snap := conv.Snapshot()
	s.conversation = &snap
}

// Conversation returns a copy of the live conversation, or nil.
func (s *Store) Conversation() *domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conversation == nil {
		return nil
	}
	snap := s.conversation.Snapshot()
	return &snap
}

// UpdateConversation applies fn to the live conversation under the store
// lock. It returns false when no conversation is in progress.
func (s *Store) UpdateConversation(fn func(*domain.Conversation)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conversation == nil {
		return false
	}
	fn(s.conversation)
	return true
}

// AddSession appends a completed training session. No deduplication.
func (s *Store) AddSession(session domain.TrainingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
}

// Sessions returns every training session in insertion order.
func (s *Store) Sessions() []domain.TrainingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions)
}

// LastSession returns the most recently added session, or nil.
func (s *Store) LastSession() *domain.TrainingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sessions) == 0 {
		return nil
	}
	last := s.sessions[len(s.sessions)-1]
	return &last
}

// Session returns the training session with the given id.
func (s *Store) Session(id string) (domain.TrainingSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return domain.TrainingSession{}, false
}

// Reset drops everything, as a page reload would.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.config = nil
	s.remote = nil
	s.conversation = nil
	s.sessions = nil
}
