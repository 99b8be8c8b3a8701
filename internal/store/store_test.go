package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/testutil"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveLoadDelete", func(t *testing.T) {
		s := NewMemoryStore()
		snap := FromState("g1", game.StandardState())
		snap.Phase = "Running"

		require.NoError(t, s.Save(ctx, snap))
		assert.Equal(t, 1, s.Len())

		loaded, err := s.Load(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)

		require.NoError(t, s.Delete(ctx, "g1"))
		_, err = s.Load(ctx, "g1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, s.Delete(ctx, "g1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := NewMemoryStore().Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NoAliasing", func(t *testing.T) {
		s := NewMemoryStore()
		snap := FromState("g1", game.StandardState())
		require.NoError(t, s.Save(ctx, snap))

		snap.Kings[0] = 42
		*snap.Board[0] = 5

		loaded, err := s.Load(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Kings[0])
		_, err = loaded.State()
		assert.NoError(t, err)

		loaded.Kings[1] = 0
		again, err := s.Load(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 60, again.Kings[1])
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := NewMemoryStore()
		snap := FromState("g1", game.StandardState())
		require.NoError(t, s.Save(ctx, snap))
		snap.Plies = 3
		require.NoError(t, s.Save(ctx, snap))

		loaded, err := s.Load(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Plies)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("CancelledContext", func(t *testing.T) {
		s := NewMemoryStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, s.Save(cctx, FromState("g1", game.StandardState())), context.Canceled)
		_, err := s.Load(cctx, "g1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, s.Delete(cctx, "g1"), context.Canceled)
	})
}

func TestNewMongoStore_InvalidURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{
		URI:        "not-a-mongo-uri",
		Database:   "chess",
		Collection: "games",
		Timeout:    time.Second,
	}, testutil.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to MongoDB")
}
