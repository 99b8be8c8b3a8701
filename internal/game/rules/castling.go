package rules

import "github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"

// CastleSide selects which rook partners the king.
type CastleSide uint8

const (
	// KingSide partners the h-file rook.
	KingSide CastleSide = iota
	// QueenSide partners the a-file rook.
	QueenSide
)

func (s CastleSide) String() string {
	if s == QueenSide {
		return "queen-side"
	}
	return "king-side"
}

// Home squares for castling, indexed by team.
var (
	HomeKing      = [2]core.Square{3, 60}
	KingSideRook  = [2]core.Square{7, 63}
	QueenSideRook = [2]core.Square{0, 56}
)

func rookHome(team core.Team, side CastleSide) core.Square {
	if side == QueenSide {
		return QueenSideRook[team]
	}
	return KingSideRook[team]
}

// CastleTarget returns the partner square the piece on from may swap with
// when castling on side. A king query yields the rook's square; a rook query
// yields the king's square and ignores side, deriving it from the rook's file.
func CastleTarget(b *core.Board, forfeited [2]bool, from core.Square, side CastleSide) (core.Square, bool) {
	if !from.Valid() {
		return 0, false
	}
	p, ok := b.At(from).Piece()
	if !ok {
		return 0, false
	}
	team := p.Team()
	if forfeited[team] {
		return 0, false
	}

	var king, rook core.Square
	switch p.Type() {
	case core.King:
		king, rook = from, rookHome(team, side)
	case core.Rook:
		if from.File() == 0 {
			side = QueenSide
		} else {
			side = KingSide
		}
		king, rook = HomeKing[team], from
	default:
		return 0, false
	}
	if king != HomeKing[team] || rook != rookHome(team, side) {
		return 0, false
	}
	if !b.At(king).Is(team, core.King) || !b.At(rook).Is(team, core.Rook) {
		return 0, false
	}

	lo, hi := king, rook
	if lo > hi {
		lo, hi = hi, lo
	}
	for sq := lo + 1; sq < hi; sq++ {
		if !b.At(sq).IsEmpty() {
			return 0, false
		}
	}
	enemy := team.Opponent()
	for sq := lo; sq <= hi; sq++ {
		if IsAttackedBy(b, sq, enemy) {
			return 0, false
		}
	}

	if p.Type() == core.King {
		return rook, true
	}
	return king, true
}

// CastleTargets tries king-side then queen-side and returns the distinct
// partner squares available to the piece on from.
func CastleTargets(b *core.Board, forfeited [2]bool, from core.Square) core.MoveList {
	var targets core.MoveList
	for _, side := range [2]CastleSide{KingSide, QueenSide} {
		if to, ok := CastleTarget(b, forfeited, from, side); ok && !targets.Contains(to) {
			targets.Add(to)
		}
	}
	return targets
}

// ExecuteCastle swaps the king and rook cells exactly as they stand and
// moves the king cache to wherever the king ended up. The caller is
// responsible for having validated the pair with CastleTarget.
func ExecuteCastle(b *core.Board, kings *[2]core.Square, from, to core.Square) {
	b.Swap(from, to)
	for _, sq := range [2]core.Square{from, to} {
		if p, ok := b.At(sq).Piece(); ok && p.Type() == core.King {
			kings[p.Team()] = sq
		}
	}
}
