package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klyra/api/models"
)

const testAPIKey = "abcDEF123456"

// stubResolver resolves one fixed API key without a database.
type stubResolver struct{}

func (stubResolver) GetTenantByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error) {
	if apiKey != testAPIKey {
		return nil, ErrUnauthorized
	}
	return &models.Tenant{ID: 1, Name: "Acme", Email: "acme@example.com", APIKey: apiKey}, nil
}

func newTestTracker(t *testing.T) (*PresenceTracker, *MemoryStore, *time.Time) {
	t.Helper()
	mem := NewMemoryStore()
	tracker := NewPresenceTracker(mem, stubResolver{})
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }
	return tracker, mem, &current
}

func presenceState(t *testing.T, mem *MemoryStore) (map[string]models.PresenceSession, int) {
	t.Helper()
	doc, ok, err := mem.Get(context.Background(), presenceKey(testAPIKey))
	require.NoError(t, err)
	require.True(t, ok)
	count, ok := asInt(doc["count"])
	require.True(t, ok)
	return decodeSessions(doc["sessions"]), count
}

func TestIncrementIsIdempotent(t *testing.T) {
	tracker, mem, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))
	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))

	sessions, count := presenceState(t, mem)
	assert.Equal(t, 1, count)
	assert.Len(t, sessions, 1)
	assert.Contains(t, sessions, "t1")
}

func TestDecrementIsIdempotent(t *testing.T) {
	tracker, mem, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))
	require.NoError(t, tracker.Decrement(ctx, testAPIKey, "t1"))
	sessions, count := presenceState(t, mem)
	assert.Equal(t, 0, count)
	assert.Empty(t, sessions)

	// Removing again, and removing a tab that never existed, are no-ops.
	require.NoError(t, tracker.Decrement(ctx, testAPIKey, "t1"))
	require.NoError(t, tracker.Decrement(ctx, testAPIKey, "never-seen"))
	sessions, count = presenceState(t, mem)
	assert.Equal(t, 0, count)
	assert.Empty(t, sessions)
}

func TestCountMatchesSessionsAfterEveryOperation(t *testing.T) {
	tracker, mem, _ := newTestTracker(t)
	ctx := context.Background()

	ops := []func() error{
		func() error { return tracker.Increment(ctx, testAPIKey, "a") },
		func() error { return tracker.Increment(ctx, testAPIKey, "b") },
		func() error { return tracker.Heartbeat(ctx, testAPIKey, "a", "") },
		func() error { return tracker.Decrement(ctx, testAPIKey, "b") },
		func() error { return tracker.Increment(ctx, testAPIKey, "c") },
	}
	for _, op := range ops {
		require.NoError(t, op())
		sessions, count := presenceState(t, mem)
		assert.Equal(t, len(sessions), count)
	}
}

func TestHeartbeatLifecycleEvictsSilentTab(t *testing.T) {
	tracker, mem, now := newTestTracker(t)
	ctx := context.Background()
	base := *now

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))
	_, count := presenceState(t, mem)
	assert.Equal(t, 1, count)

	for _, offset := range []time.Duration{30 * time.Second, 60 * time.Second} {
		*now = base.Add(offset)
		require.NoError(t, tracker.Heartbeat(ctx, testAPIKey, "t1", now.Format(time.RFC3339)))
		_, count = presenceState(t, mem)
		assert.Equal(t, 1, count)
	}

	// t1 goes silent; a heartbeat from a different tab 80s later sweeps it.
	*now = base.Add(140 * time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, testAPIKey, "t2", now.Format(time.RFC3339)))
	sessions, count := presenceState(t, mem)
	assert.Equal(t, 1, count)
	assert.Contains(t, sessions, "t2")
	assert.NotContains(t, sessions, "t1")
}

func TestSweepKeepsTabAtExactWindowBoundary(t *testing.T) {
	tracker, mem, now := newTestTracker(t)
	ctx := context.Background()
	base := *now

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))

	// Exactly 70s old is not "older than" the window.
	*now = base.Add(70 * time.Second)
	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t2"))
	sessions, count := presenceState(t, mem)
	assert.Equal(t, 2, count)
	assert.Contains(t, sessions, "t1")

	*now = base.Add(70*time.Second + time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, testAPIKey, "t2", now.Format(time.RFC3339)))
	sessions, count = presenceState(t, mem)
	assert.Equal(t, 1, count)
	assert.NotContains(t, sessions, "t1")
}

func TestCorruptPresenceDocumentHeals(t *testing.T) {
	tracker, mem, _ := newTestTracker(t)
	ctx := context.Background()

	// A sessions field of the wrong type reads as empty instead of failing.
	require.NoError(t, mem.Set(ctx, presenceKey(testAPIKey), Document{"sessions": "garbage", "count": 99}, false))

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))
	sessions, count := presenceState(t, mem)
	assert.Equal(t, 1, count)
	assert.Contains(t, sessions, "t1")
}

func TestSweepDropsUnparseableLastSeen(t *testing.T) {
	tracker, mem, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, presenceKey(testAPIKey), Document{
		"sessions": map[string]any{
			"zombie": map[string]any{"tabId": "zombie", "lastSeen": "not-a-timestamp"},
		},
	}, false))

	require.NoError(t, tracker.Increment(ctx, testAPIKey, "t1"))
	sessions, count := presenceState(t, mem)
	assert.Equal(t, 1, count)
	assert.NotContains(t, sessions, "zombie")
}

func TestPresenceRejectsUnknownAPIKey(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	err := tracker.Increment(context.Background(), "wrong-key-000", "t1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
