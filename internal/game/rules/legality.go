package rules

import "github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"

// LegalMoves returns the destinations of the piece on from that do not leave
// its own king attacked. kings holds the cached king square of each team.
// Castling destinations are not included; see CastleTargets.
func LegalMoves(b *core.Board, kings [2]core.Square, from core.Square) core.MoveList {
	var none core.MoveList
	if !from.Valid() {
		return none
	}
	p, ok := b.At(from).Piece()
	if !ok {
		return none
	}
	king := kings[p.Team()]
	if IsAttacked(b, king) {
		return checkEvasions(b, king, from)
	}
	return filterExposing(b, king, from)
}

// filterExposing is used while the mover's king is safe: pseudo-legal moves
// that would expose the king are dropped.
func filterExposing(b *core.Board, king, from core.Square) core.MoveList {
	moves := PseudoMoves(b, from)
	moves.Retain(func(to core.Square) bool {
		return !leavesKingAttacked(b, king, from, to)
	})
	return moves
}

// checkEvasions is used while the mover's king is attacked: only moves of
// the queried piece after which the king is no longer attacked survive.
func checkEvasions(b *core.Board, king, from core.Square) core.MoveList {
	var evasions core.MoveList
	mover, _ := b.At(from).Piece()
	kp, ok := b.At(king).Piece()
	if !ok || kp.Type() != core.King || kp.Team() != mover.Team() {
		return evasions
	}
	moves := PseudoMoves(b, from)
	for i := 0; i < moves.Len(); i++ {
		to := moves.At(i)
		if !leavesKingAttacked(b, king, from, to) {
			evasions.Add(to)
		}
	}
	return evasions
}

// leavesKingAttacked plays from-to on a scratch copy of b and tests the king.
// When the king itself moves it is tested on its new square.
func leavesKingAttacked(b *core.Board, king, from, to core.Square) bool {
	scratch := *b
	scratch.Relocate(from, to)
	if from == king {
		king = to
	}
	return IsAttacked(&scratch, king)
}
