package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clavisure/clavis/internal/model"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	state := model.NewConversationState("sess-1")
	state.ActiveFlow = model.FlowQuote
	state.Phase = model.PhaseFlowActive
	state.CollectedSlots[model.SlotFullName] = "Max Muster"

	require.NoError(t, s.Save(ctx, state))
	assert.Equal(t, int64(1), state.Version)

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.FlowQuote, got.ActiveFlow)
	assert.Equal(t, "Max Muster", got.CollectedSlots[model.SlotFullName])
	assert.Equal(t, int64(1), got.Version)
}

func TestRedisStoreUnknownSession(t *testing.T) {
	s := newTestRedisStore(t)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreStaleWriterCatchesUp(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	first := model.NewConversationState("sess-1")
	require.NoError(t, s.Save(ctx, first))

	// A second writer advances the stored version past the first's copy.
	second, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	second.CollectedSlots[model.SlotFullName] = "Max"
	require.NoError(t, s.Save(ctx, second))

	// The stale writer conflicts, refreshes, and lands on top.
	first.CollectedSlots[model.SlotEmail] = "max@example.ch"
	require.NoError(t, s.Save(ctx, first))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, "max@example.ch", got.CollectedSlots[model.SlotEmail])
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	state := model.NewConversationState("sess-1")
	require.NoError(t, s.Save(ctx, state))
	require.NoError(t, s.Delete(ctx, "sess-1"))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	assert.Error(t, s.Save(ctx, nil))
	assert.Error(t, s.Save(ctx, &model.ConversationState{}))

	_, err := s.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
}
