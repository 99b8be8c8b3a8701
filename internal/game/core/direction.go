package core

import "fmt"

// Direction is one of the eight compass steps, expressed from the moving
// team's own point of view so piece rules never need to branch on team.
type Direction uint8

const (
	Advance Direction = iota
	Retreat
	Left
	Right
	AdvanceLeft
	AdvanceRight
	RetreatLeft
	RetreatRight
)

// Orthogonals and Diagonals group the directions used by sliding pieces.
var (
	Orthogonals = [4]Direction{Advance, Left, Right, Retreat}
	Diagonals   = [4]Direction{AdvanceLeft, AdvanceRight, RetreatLeft, RetreatRight}
)

// KingDirections is the order in which king steps are generated.
var KingDirections = [8]Direction{
	Advance, AdvanceLeft, AdvanceRight, Left, Right, Retreat, RetreatLeft, RetreatRight,
}

// directionVectors holds the White file/rank offsets for each direction.
// Black uses the negation. White's "left" is toward the h-file.
var directionVectors = [8]struct{ df, dr int }{
	Advance:      {0, 1},
	Retreat:      {0, -1},
	Left:         {1, 0},
	Right:        {-1, 0},
	AdvanceLeft:  {1, 1},
	AdvanceRight: {-1, 1},
	RetreatLeft:  {1, -1},
	RetreatRight: {-1, -1},
}

// Step moves one square in direction d for team. It returns false when the
// step would leave the board or wrap around a file edge.
func (d Direction) Step(team Team, from Square) (Square, bool) {
	if !from.Valid() || d > RetreatRight {
		return 0, false
	}
	v := directionVectors[d]
	if team == Black {
		v.df, v.dr = -v.df, -v.dr
	}
	return NewSquare(from.File()+v.df, from.Rank()+v.dr)
}

// StepOpt is Step chained through an optional square, so compositions such as
// the knight's L-shape stay absent once any step falls off the board.
func (d Direction) StepOpt(team Team, from OptSquare) OptSquare {
	if !from.Valid {
		return OptSquare{}
	}
	sq, ok := d.Step(team, from.Square)
	return OptSquare{Square: sq, Valid: ok}
}

func (d Direction) String() string {
	switch d {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	case Left:
		return "left"
	case Right:
		return "right"
	case AdvanceLeft:
		return "advance-left"
	case AdvanceRight:
		return "advance-right"
	case RetreatLeft:
		return "retreat-left"
	case RetreatRight:
		return "retreat-right"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}
