package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// PlayRandom plays up to plies random legal moves from the opening and
// returns the game. It stops early once a king is mated or the side to move
// has nothing to play.
func PlayRandom(t testing.TB, seed int64, plies int) *game.Game {
	t.Helper()
	rng := NewTestRNG(seed)
	g := game.NewGame(NopLogger())
	for ply := 0; ply < plies; ply++ {
		if g.Status(core.White) == game.Mate || g.Status(core.Black) == game.Mate {
			break
		}
		var candidates [][2]int
		for from := 0; from < core.BoardSize; from++ {
			for _, to := range g.LegalMoves(from).Indices() {
				candidates = append(candidates, [2]int{from, to})
			}
		}
		if len(candidates) == 0 {
			break
		}
		pick := candidates[rng.Intn(len(candidates))]
		_, err := g.Move(pick[0], pick[1])
		require.NoError(t, err, "ply %d move %d-%d", ply, pick[0], pick[1])
	}
	return g
}
