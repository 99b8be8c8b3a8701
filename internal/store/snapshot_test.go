package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/testutil"
)

func customState() game.GameState {
	var gs game.GameState
	gs.Board.Set(4, core.MakePiece(core.White, core.King))
	gs.Board.Set(59, core.MakePiece(core.Black, core.King))
	gs.Board.Set(57, core.MakePiece(core.White, core.Pawn))
	gs.Board.Set(30, core.MakePiece(core.Black, core.Queen))
	gs.Kings = [2]core.Square{4, 59}
	gs.Turn = core.Black
	gs.CastleForfeited = [2]bool{true, false}
	gs.EnPassant[core.Black] = core.SomeSquare(20)
	return gs
}

func TestFromState_RoundTrip(t *testing.T) {
	for name, gs := range map[string]game.GameState{
		"standard": game.StandardState(),
		"custom":   customState(),
	} {
		t.Run(name, func(t *testing.T) {
			snap := FromState("g1", gs)
			assert.Equal(t, "g1", snap.GameID)
			require.Len(t, snap.Board, core.BoardSize)

			back, err := snap.State()
			require.NoError(t, err)
			assert.Equal(t, gs, back)
		})
	}
}

func TestFromState_RandomGames(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		gs := testutil.PlayRandom(t, seed, 60).State()

		back, err := FromState("g", gs).State()
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, gs, back, "seed %d", seed)
	}
}

func TestFromState_Encoding(t *testing.T) {
	snap := FromState("g1", customState())

	assert.Nil(t, snap.Board[0])
	require.NotNil(t, snap.Board[59])
	assert.Equal(t, int(core.MakePiece(core.Black, core.King)), *snap.Board[59])
	assert.Equal(t, []int{4, 59}, snap.Kings)
	assert.Equal(t, 1, snap.Turn)
	assert.Equal(t, []bool{true, false}, snap.CastleForfeited)
	assert.Nil(t, snap.EnPassant[0])
	require.NotNil(t, snap.EnPassant[1])
	assert.Equal(t, 20, *snap.EnPassant[1])
}

func TestSnapshot_JSON(t *testing.T) {
	snap := FromState("g1", customState())
	snap.Phase = "Running"
	snap.Plies = 7

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"en_passant":[null,20]`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Running", decoded.Phase)
	assert.Equal(t, 7, decoded.Plies)

	gs, err := decoded.State()
	require.NoError(t, err)
	assert.Equal(t, customState(), gs)
}

func TestSnapshot_BSON(t *testing.T) {
	snap := FromState("g1", customState())
	snap.Winner = -1

	data, err := bson.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, "g1", decoded.GameID)
	assert.Equal(t, -1, decoded.Winner)

	gs, err := decoded.State()
	require.NoError(t, err)
	assert.Equal(t, customState(), gs)

	// The store indexes documents by game_id.
	plain := FromState("g2", game.StandardState())
	data, err = bson.Marshal(plain)
	require.NoError(t, err)
	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	assert.Equal(t, "g2", raw["game_id"])
}

func TestSnapshot_StateRejectsMalformed(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"short board", func(s *Snapshot) { s.Board = s.Board[:63] }},
		{"missing king entry", func(s *Snapshot) { s.Kings = s.Kings[:1] }},
		{"turn out of range", func(s *Snapshot) { s.Turn = 2 }},
		{"unknown piece id", func(s *Snapshot) { s.Board[20] = intp(7) }},
		{"negative piece id", func(s *Snapshot) { s.Board[20] = intp(-1) }},
		{"king cache off board", func(s *Snapshot) { s.Kings[0] = 64 }},
		{"king cache wrong square", func(s *Snapshot) { s.Kings[0] = 5 }},
		{"second white king", func(s *Snapshot) { s.Board[20] = intp(int(core.MakePiece(core.White, core.King))) }},
		{"en passant off board", func(s *Snapshot) { s.EnPassant[0] = intp(99) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := FromState("g", game.StandardState())
			tt.mutate(&snap)
			_, err := snap.State()
			assert.ErrorIs(t, err, core.ErrMalformedState)
		})
	}
}
