// Package session persists per-session conversation state. Sessions are
// independent: the store guarantees read-modify-write atomicity per session
// and nothing across sessions.
package session

import (
	"context"

	"github.com/clavisure/clavis/internal/model"
)

// Store is the contract for conversation state persistence. Get returns
// (nil, nil) for an unknown session; expiry is the store's concern, the
// state machine never deletes state.
type Store interface {
	Get(ctx context.Context, sessionID string) (*model.ConversationState, error)
	Save(ctx context.Context, state *model.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}
