package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCleanupGames(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	cfg := Config{
		MaxGames:    10,
		IdleTimeout: 30 * time.Minute,
		FinishedTTL: 5 * time.Minute,
	}
	m := newTestManager(t, cfg, st)
	clock := &fakeClock{now: time.Now()}
	m.now = clock.Now

	active, _, err := m.Create(ctx, CreateOptions{})
	require.NoError(t, err)
	finished, seats, err := m.Create(ctx, CreateOptions{State: mateInOne(t)})
	require.NoError(t, err)
	_, err = m.Move(ctx, MoveRequest{GameID: finished.ID, SeatToken: seats.Black, From: 15, To: 7})
	require.NoError(t, err)

	assert.Equal(t, 0, m.CleanupGames(ctx))

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, m.CleanupGames(ctx))
	_, err = m.Get(finished.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = st.Load(ctx, finished.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = m.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	assert.Equal(t, 1, m.CleanupGames(ctx))
	assert.Equal(t, 0, m.Count())

	// Abandoned games stay restorable.
	_, err = st.Load(ctx, active.ID)
	assert.NoError(t, err)
	restored, _, err := m.Restore(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, restored.ID)
}

func TestCleanupGames_ActivityKeepsGameAlive(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, Config{IdleTimeout: 30 * time.Minute}, nil)
	clock := &fakeClock{now: time.Now()}
	m.now = clock.Now

	info, seats, err := m.Create(ctx, CreateOptions{})
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = m.Move(ctx, MoveRequest{GameID: info.ID, SeatToken: seats.White, From: 11, To: 27})
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, m.CleanupGames(ctx))
	assert.Equal(t, 1, m.Count())
}

func TestRunCleanup(t *testing.T) {
	m := newTestManager(t, Config{IdleTimeout: time.Minute, CleanupInterval: 5 * time.Millisecond}, nil)
	clock := &fakeClock{now: time.Now()}
	m.now = clock.Now

	_, _, err := m.Create(context.Background(), CreateOptions{})
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		m.RunCleanup(ctx)
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
