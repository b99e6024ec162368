package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphwalk/store"
)

func TestRedisRunStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisRunStore(RedisOptions{
		Addr: mr.Addr(),
	})
	defer s.Close()

	ctx := context.Background()
	session := "server-123"
	now := time.Now()

	rec := &store.RunRecord{
		ID:           "run-1",
		SessionID:    session,
		ArtifactPath: "/srv/walks_output/walks_1.csv",
		Nodes:        100,
		Walks:        995,
		NumWalks:     10,
		WalkLength:   15,
		Shortfall:    5,
		Duration:     750 * time.Millisecond,
		Timestamp:    now,
	}

	// Save and Load
	require.NoError(t, s.Save(ctx, rec))
	assert.True(t, mr.Exists("graphwalk:run:run-1"))

	loaded, err := s.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ArtifactPath, loaded.ArtifactPath)
	assert.Equal(t, rec.Walks, loaded.Walks)
	assert.Equal(t, rec.Shortfall, loaded.Shortfall)
	assert.Equal(t, rec.Duration, loaded.Duration)
	assert.True(t, rec.Timestamp.Equal(loaded.Timestamp))

	// List
	list, err := s.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	// Delete
	require.NoError(t, s.Delete(ctx, "run-1"))
	_, err = s.Load(ctx, "run-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "run-1"), store.ErrNotFound)

	list, err = s.List(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, list)

	// List orders by timestamp, Clear drops the session
	require.NoError(t, s.Save(ctx, &store.RunRecord{ID: "run-3", SessionID: session, Timestamp: now.Add(2 * time.Second)}))
	require.NoError(t, s.Save(ctx, &store.RunRecord{ID: "run-2", SessionID: session, Timestamp: now.Add(time.Second)}))

	list, err = s.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-2", list[0].ID)
	assert.Equal(t, "run-3", list[1].ID)

	require.NoError(t, s.Clear(ctx, session))
	list, err = s.List(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, s.Clear(ctx, session))
}

func TestRedisRunStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisRunStore(RedisOptions{
		Addr:   mr.Addr(),
		Prefix: "test:",
		TTL:    time.Minute,
	})
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &store.RunRecord{ID: "run-1", SessionID: "s", Timestamp: time.Now()}))

	assert.Equal(t, time.Minute, mr.TTL("test:run:run-1"))
	assert.Equal(t, time.Minute, mr.TTL("test:session:s:runs"))

	mr.FastForward(2 * time.Minute)

	list, err := s.List(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, list)
}
