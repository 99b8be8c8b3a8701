package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

var (
	wK = core.MakePiece(core.White, core.King)
	wQ = core.MakePiece(core.White, core.Queen)
	wR = core.MakePiece(core.White, core.Rook)
	wB = core.MakePiece(core.White, core.Bishop)
	wN = core.MakePiece(core.White, core.Knight)
	wP = core.MakePiece(core.White, core.Pawn)
	bK = core.MakePiece(core.Black, core.King)
	bQ = core.MakePiece(core.Black, core.Queen)
	bR = core.MakePiece(core.Black, core.Rook)
	bN = core.MakePiece(core.Black, core.Knight)
	bP = core.MakePiece(core.Black, core.Pawn)
)

// boardWith builds a board holding exactly the given pieces.
func boardWith(pieces map[core.Square]core.Piece) *core.Board {
	var b core.Board
	for sq, p := range pieces {
		b.Set(sq, p)
	}
	return &b
}

// startingBoard lays out the standard opening position.
func startingBoard() *core.Board {
	back := [8]core.PieceType{core.Rook, core.Knight, core.Bishop, core.King, core.Queen, core.Bishop, core.Knight, core.Rook}
	var b core.Board
	for i := 0; i < 8; i++ {
		b.Set(core.Square(i), core.MakePiece(core.White, back[i]))
		b.Set(core.Square(8+i), wP)
		b.Set(core.Square(48+i), bP)
	}
	blackBack := [8]core.PieceType{core.Rook, core.Knight, core.Bishop, core.Queen, core.King, core.Bishop, core.Knight, core.Rook}
	for i := 0; i < 8; i++ {
		b.Set(core.Square(56+i), core.MakePiece(core.Black, blackBack[i]))
	}
	return &b
}

func squares(idx ...int) []core.Square {
	out := make([]core.Square, len(idx))
	for i, v := range idx {
		out[i] = core.Square(v)
	}
	return out
}

func requireNoDuplicates(t *testing.T, moves core.MoveList) {
	t.Helper()
	seen := make(map[core.Square]bool)
	for _, sq := range moves.Squares() {
		require.False(t, seen[sq], "duplicate destination %s", sq)
		seen[sq] = true
	}
}
