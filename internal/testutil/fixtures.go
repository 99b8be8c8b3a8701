package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/setup"
)

// MateInOneDiagram: with Black to move, h2-h1 mates the White king on d1,
// which is boxed in by its own pawns.
const MateInOneDiagram = `
....k...
........
........
........
........
........
..PPP..r
...K....
`

// PromotionDiagram: White to move, b7-b8 reaches the far rank.
const PromotionDiagram = `
.......k
.P......
........
........
........
........
........
K.......
`

// KingsOnlyDiagram has both kings on their home squares and nothing else.
const KingsOnlyDiagram = `
....k...
........
........
........
........
........
........
...K....
`

// MustDiagram parses diagram and sets the side to move.
func MustDiagram(t testing.TB, diagram string, turn core.Team) game.GameState {
	t.Helper()
	gs, err := setup.FromDiagram(diagram)
	require.NoError(t, err)
	gs.Turn = turn
	return gs
}

// MateInOne returns the MateInOneDiagram position with Black to move.
func MateInOne(t testing.TB) *game.GameState {
	t.Helper()
	gs := MustDiagram(t, MateInOneDiagram, core.Black)
	return &gs
}

// PromotionReady returns the PromotionDiagram position with White to move.
func PromotionReady(t testing.TB) *game.GameState {
	t.Helper()
	gs := MustDiagram(t, PromotionDiagram, core.White)
	return &gs
}
