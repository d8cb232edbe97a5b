package session

import (
	"context"
	"sync"

	"github.com/clavisure/clavis/internal/model"
)

// MemoryStore is an in-process Store used by tests and the CLI chat loop.
// States are deep-copied on the way in and out so callers never share maps.
type MemoryStore struct {
	states map[string]*model.ConversationState
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*model.ConversationState)}
}

// Get returns a copy of the stored state, or (nil, nil) when absent.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*model.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

// Save stores a copy of the state.
func (s *MemoryStore) Save(_ context.Context, state *model.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Version++
	s.states[state.SessionID] = state.Clone()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
