package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	data    map[string]string
	unlocks int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) TryLock(_ context.Context, key, owner string, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = owner
	return true, nil
}

func (m *memoryStore) Unlock(_ context.Context, key, owner string) (bool, error) {
	m.unlocks++
	if m.data[key] != owner {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func TestRedisLockExcludesSecondOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	first, err := NewRedisLock(store, "dd:lock:cron", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "dd:lock:cron", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// a non-owner release must not free someone else's lock
	require.NoError(t, second.Release(ctx))
	require.Contains(t, store.data, "dd:lock:cron")

	require.NoError(t, first.Release(ctx))
	require.NotContains(t, store.data, "dd:lock:cron")

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	lock, err := NewRedisLock(store, "k", 0)
	require.NoError(t, err)
	require.Equal(t, defaultLockTTL, lock.ttl)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// key expired and was taken over by another replica
	store.data["k"] = "someone-else"
	require.NoError(t, lock.Release(ctx))
	require.Equal(t, "someone-else", store.data["k"])

	// a second release does not reach the store
	require.NoError(t, lock.Release(ctx))
	require.Equal(t, 1, store.unlocks)
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Minute)
	require.Error(t, err)
	_, err = NewRedisLock(newMemoryStore(), "", time.Minute)
	require.Error(t, err)
}

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lock.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, lock.Release(ctx))
	ok, err = lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}
