package core

// Cell is one board square: either empty or holding a piece.
type Cell struct {
	piece    Piece
	occupied bool
}

// EmptyCell is the vacant square.
var EmptyCell = Cell{}

// Occupied wraps a piece in a cell.
func Occupied(p Piece) Cell {
	return Cell{piece: p, occupied: true}
}

// Piece returns the occupant and whether there is one.
func (c Cell) Piece() (Piece, bool) {
	return c.piece, c.occupied
}

// IsEmpty reports whether no piece stands on the cell.
func (c Cell) IsEmpty() bool { return !c.occupied }

// HasTeam reports whether the cell holds a piece of team.
func (c Cell) HasTeam(team Team) bool {
	return c.occupied && c.piece.Team() == team
}

// HasEnemyOf reports whether the cell holds a piece not belonging to team.
func (c Cell) HasEnemyOf(team Team) bool {
	return c.occupied && c.piece.Team() != team
}

// Is reports whether the cell holds exactly the given team and type.
func (c Cell) Is(team Team, typ PieceType) bool {
	return c.occupied && c.piece == MakePiece(team, typ)
}

func (c Cell) String() string {
	if !c.occupied {
		return "empty"
	}
	return c.piece.String()
}

// Board is the 64-cell array. It is a value type: assigning a Board copies
// it, which is how rules build scratch positions.
type Board [BoardSize]Cell

// At returns the cell on sq. sq must be valid.
func (b *Board) At(sq Square) Cell {
	return b[sq]
}

// Set places p on sq.
func (b *Board) Set(sq Square, p Piece) {
	b[sq] = Occupied(p)
}

// Clear empties sq.
func (b *Board) Clear(sq Square) {
	b[sq] = EmptyCell
}

// Relocate moves whatever stands on from to to, emptying from.
func (b *Board) Relocate(from, to Square) {
	b[to] = b[from]
	b[from] = EmptyCell
}

// Swap exchanges the contents of two squares.
func (b *Board) Swap(a, c Square) {
	b[a], b[c] = b[c], b[a]
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, c := range b {
		if c.occupied {
			n++
		}
	}
	return n
}

// FindKing scans for the king of team. Used to validate cached king squares.
func (b *Board) FindKing(team Team) (Square, bool) {
	for i, c := range b {
		if c.Is(team, King) {
			return Square(i), true
		}
	}
	return 0, false
}
