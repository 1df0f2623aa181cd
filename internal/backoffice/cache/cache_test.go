package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type province struct {
	ID   string
	Name string
}

func TestRemember(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]province, error) {
		calls++
		return []province{{ID: "1501", Name: "Lima"}}, nil
	}

	first, err := Remember(ctx, store, "provinces_dept_15", time.Hour, load)
	require.NoError(t, err)
	second, err := Remember(ctx, store, "provinces_dept_15", time.Hour, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRemember_LoadErrorIsNotCached(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Remember(ctx, store, "k", time.Hour, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := Remember(ctx, store, "k", time.Hour, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestMemory_Expiry(t *testing.T) {
	store := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Hour))
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Hour)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLocalLocker_Serialises(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "project_code:OBR-2026", time.Second)
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}
