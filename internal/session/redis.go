package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clavisure/clavis/internal/common"
	"github.com/clavisure/clavis/internal/model"
)

const (
	defaultKeyPrefix = "clavis:session:"
	defaultTTL       = 24 * time.Hour
	saveMaxRetries   = 3
)

// RedisStore persists conversation state in Redis with per-session
// optimistic concurrency: Save re-checks the stored version under WATCH and
// retries on a concurrent write to the same session.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore connects to Redis and returns a session store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultTTL,
	}
}

// Get loads a session's state. Unknown sessions return (nil, nil).
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	data, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var state model.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &state, nil
}

// Save stores the state, bumping its version. A stored version newer than
// the one the caller read means a concurrent writer got there first; the
// save is retried against the fresh version a bounded number of times.
func (s *RedisStore) Save(ctx context.Context, state *model.ConversationState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("invalid session state")
	}

	key := s.keyPrefix + state.SessionID

	for attempt := 0; attempt <= saveMaxRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			currentData, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			if err == nil {
				var current model.ConversationState
				if err := json.Unmarshal(currentData, &current); err != nil {
					return fmt.Errorf("failed to decode stored session: %w", err)
				}
				if current.Version > state.Version {
					return common.ErrSessionConflict
				}
			}

			state.Version++
			state.UpdatedAt = time.Now().UTC()

			data, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("failed to encode session: %w", err)
			}

			// The write must go through MULTI/EXEC or the WATCH above
			// gives no protection against a concurrent writer.
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, s.ttl)
				return nil
			})
			return err
		}, key)

		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) && !errors.Is(err, common.ErrSessionConflict) {
			return err
		}

		if attempt < saveMaxRetries {
			// Backoff grows linearly; conflicts on one session are rare.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(10*(attempt+1)) * time.Millisecond):
			}
			fresh, getErr := s.Get(ctx, state.SessionID)
			if getErr == nil && fresh != nil {
				state.Version = fresh.Version
			}
			continue
		}

		return fmt.Errorf("%w saving session %s", common.ErrMaxRetries, state.SessionID)
	}

	return common.ErrMaxRetries
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}
	return s.client.Del(ctx, s.keyPrefix+sessionID).Err()
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
