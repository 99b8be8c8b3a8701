package rules

import "github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"

// IsAttacked reports whether any piece of the other team than the occupant
// of sq can reach sq. An empty square has no occupant and is never attacked;
// use IsAttackedBy for vacant squares.
func IsAttacked(b *core.Board, sq core.Square) bool {
	if !sq.Valid() {
		return false
	}
	p, ok := b.At(sq).Piece()
	if !ok {
		return false
	}
	return IsAttackedBy(b, sq, p.Team().Opponent())
}

// IsAttackedBy reports whether some piece of team has sq among its
// pseudo-legal destinations. The whole board is rescanned on every call.
func IsAttackedBy(b *core.Board, sq core.Square, team core.Team) bool {
	if !sq.Valid() {
		return false
	}
	for i := core.Square(0); i < core.BoardSize; i++ {
		if !b.At(i).HasTeam(team) {
			continue
		}
		moves := PseudoMoves(b, i)
		if moves.Contains(sq) {
			return true
		}
	}
	return false
}
