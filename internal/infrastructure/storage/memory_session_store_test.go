package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision-match/internal/domain/entity"
)

func TestMemorySessionStore_GetCreates(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	s, err := store.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, s.State)
	assert.Equal(t, int64(10), s.ChatID)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_GetReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	s, err := store.Get(ctx, 1, 10)
	require.NoError(t, err)
	s.State = entity.StateSearching
	s.Last = &entity.SearchSummary{Scanned: 3}

	again, err := store.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, again.State)
	assert.Nil(t, again.Last)
}

func TestMemorySessionStore_Save(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	s := entity.NewSession(2, 20)
	require.NoError(t, s.SetThreshold(0.9))
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 0.9, got.Threshold)

	assert.Error(t, store.Save(ctx, nil))
}

func TestMemorySessionStore_UpdateRollsBackOnError(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Update(ctx, 1, 10, func(s *entity.Session) error {
		s.State = entity.StateSearching
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, err := store.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, got.State)
}

func TestMemorySessionStore_UpdateIsAtomic(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	waiting := entity.NewSession(1, 10)
	waiting.State = entity.StateAwaitingReference
	require.NoError(t, store.Save(ctx, waiting))

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, 1, 10, func(s *entity.Session) error {
				return s.Start(s.UpdatedAt)
			})
			if err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}

func TestMemorySessionStore_CancelledContext(t *testing.T) {
	store := NewMemorySessionStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Update(ctx, 1, 10, func(*entity.Session) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
