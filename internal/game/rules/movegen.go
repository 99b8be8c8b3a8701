package rules

import "github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"

// PseudoMoves returns the destinations the piece on from could reach by its
// movement pattern and board occupancy alone. It never looks at check and
// never mutates b. An empty or invalid square yields an empty list.
func PseudoMoves(b *core.Board, from core.Square) core.MoveList {
	var moves core.MoveList
	if !from.Valid() {
		return moves
	}
	p, ok := b.At(from).Piece()
	if !ok {
		return moves
	}
	team := p.Team()

	switch p.Type() {
	case core.Pawn:
		pawnMoves(b, team, from, &moves)
	case core.Knight:
		knightMoves(b, team, from, &moves)
	case core.Bishop:
		for _, d := range core.Diagonals {
			slide(b, team, from, d, &moves)
		}
	case core.Rook:
		for _, d := range core.Orthogonals {
			slide(b, team, from, d, &moves)
		}
	case core.Queen:
		for _, d := range core.Orthogonals {
			slide(b, team, from, d, &moves)
		}
		for _, d := range core.Diagonals {
			slide(b, team, from, d, &moves)
		}
	case core.King:
		for _, d := range core.KingDirections {
			if to, ok := d.Step(team, from); ok && !b.At(to).HasTeam(team) {
				moves.Add(to)
			}
		}
	}
	return moves
}

// onStartingRanks reports whether a pawn of team on sq is still within its
// team's two home ranks.
func onStartingRanks(team core.Team, sq core.Square) bool {
	if team == core.White {
		return sq < 16
	}
	return sq >= 48
}

// pawnMoves generates, in order: the single push, the diagonal captures from
// the origin, and on the starting ranks the double push followed by the
// diagonal captures measured from the single-push square.
func pawnMoves(b *core.Board, team core.Team, from core.Square, moves *core.MoveList) {
	one, ok := core.Advance.Step(team, from)
	if !ok {
		return
	}
	if b.At(one).IsEmpty() {
		moves.Add(one)
	}
	pawnCaptures(b, team, from, moves)

	if !onStartingRanks(team, from) {
		return
	}
	if b.At(one).IsEmpty() {
		if two, ok := core.Advance.Step(team, one); ok && b.At(two).IsEmpty() {
			moves.Add(two)
		}
	}
	pawnCaptures(b, team, one, moves)
}

func pawnCaptures(b *core.Board, team core.Team, from core.Square, moves *core.MoveList) {
	for _, d := range [2]core.Direction{core.AdvanceLeft, core.AdvanceRight} {
		if to, ok := d.Step(team, from); ok && b.At(to).HasEnemyOf(team) {
			moves.Add(to)
		}
	}
}

// knightJumps lists each L-shape as a chain of single steps, in generation order.
var knightJumps = [8][3]core.Direction{
	{core.Advance, core.Left, core.Left},
	{core.Advance, core.Advance, core.Left},
	{core.Advance, core.Right, core.Right},
	{core.Advance, core.Advance, core.Right},
	{core.Retreat, core.Left, core.Left},
	{core.Retreat, core.Retreat, core.Left},
	{core.Retreat, core.Right, core.Right},
	{core.Retreat, core.Retreat, core.Right},
}

func knightMoves(b *core.Board, team core.Team, from core.Square, moves *core.MoveList) {
	for _, jump := range knightJumps {
		at := core.SomeSquare(from)
		for _, d := range jump {
			at = d.StepOpt(team, at)
		}
		if to, ok := at.Get(); ok && !b.At(to).HasTeam(team) {
			moves.Add(to)
		}
	}
}

// slide casts a ray from from in direction d, stopping before a friendly
// piece or on an enemy one.
func slide(b *core.Board, team core.Team, from core.Square, d core.Direction, moves *core.MoveList) {
	at := from
	for {
		next, ok := d.Step(team, at)
		if !ok {
			return
		}
		cell := b.At(next)
		if cell.HasTeam(team) {
			return
		}
		moves.Add(next)
		if !cell.IsEmpty() {
			return
		}
		at = next
	}
}
