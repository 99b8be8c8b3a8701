package game

import (
	"fmt"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// GameState is the complete, fixed-size position. It is a plain value:
// copying it yields an independent position.
type GameState struct {
	Board           core.Board
	Kings           [2]core.Square
	Turn            core.Team
	CastleForfeited [2]bool
	// EnPassant is reserved. No rule reads or writes it.
	EnPassant [2]core.OptSquare
}

var (
	whiteBackRank = [8]core.PieceType{core.Rook, core.Knight, core.Bishop, core.King, core.Queen, core.Bishop, core.Knight, core.Rook}
	blackBackRank = [8]core.PieceType{core.Rook, core.Knight, core.Bishop, core.Queen, core.King, core.Bishop, core.Knight, core.Rook}
)

// StandardState returns the opening position with White to move and both
// castling rights open.
func StandardState() GameState {
	var gs GameState
	for i := 0; i < 8; i++ {
		gs.Board.Set(core.Square(i), core.MakePiece(core.White, whiteBackRank[i]))
		gs.Board.Set(core.Square(8+i), core.MakePiece(core.White, core.Pawn))
		gs.Board.Set(core.Square(48+i), core.MakePiece(core.Black, core.Pawn))
		gs.Board.Set(core.Square(56+i), core.MakePiece(core.Black, blackBackRank[i]))
	}
	gs.Kings = [2]core.Square{3, 60}
	gs.Turn = core.White
	return gs
}

// Validate checks the structural invariants of a position: a known side to
// move, every cell a real piece, exactly one king per team and a king cache
// that points at it.
func (gs *GameState) Validate() error {
	if !gs.Turn.Valid() {
		return fmt.Errorf("%w: turn %d", core.ErrMalformedState, gs.Turn)
	}
	var kings [2]int
	for i := core.Square(0); i < core.BoardSize; i++ {
		p, ok := gs.Board.At(i).Piece()
		if !ok {
			continue
		}
		if !p.Valid() {
			return fmt.Errorf("%w: piece id %d on %s", core.ErrMalformedState, p, i)
		}
		if p.Type() == core.King {
			kings[p.Team()]++
		}
	}
	for _, team := range []core.Team{core.White, core.Black} {
		if kings[team] != 1 {
			return fmt.Errorf("%w: %s has %d kings", core.ErrMalformedState, team, kings[team])
		}
		sq := gs.Kings[team]
		if !sq.Valid() || !gs.Board.At(sq).Is(team, core.King) {
			return fmt.Errorf("%w: %s king cache %s does not hold the king", core.ErrMalformedState, team, sq)
		}
	}
	for _, ep := range gs.EnPassant {
		if ep.Valid && !ep.Square.Valid() {
			return fmt.Errorf("%w: en-passant slot %d", core.ErrMalformedState, ep.Square)
		}
	}
	return nil
}
