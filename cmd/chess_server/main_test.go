package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/config"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/store"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/testutil"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("chatty"))
}

func TestOpenStore_Memory(t *testing.T) {
	st, err := openStore(context.Background(), config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)
}

func TestRestoreGames(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	first := session.NewManager(session.DefaultConfig(), st, nil, testutil.NopLogger())
	info, _, err := first.Create(ctx, session.CreateOptions{})
	require.NoError(t, err)

	second := session.NewManager(session.DefaultConfig(), st, nil, testutil.NopLogger())
	restoreGames(ctx, second, " "+info.ID+", missing,,")

	assert.Equal(t, 1, second.Count())
	got, err := second.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.State, got.State)
}
