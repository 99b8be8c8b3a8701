package core

import "fmt"

// Team identifies one of the two sides. White (0) advances toward higher
// square indices, Black (1) toward lower ones.
type Team uint8

const (
	White Team = 0
	Black Team = 1
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	return t ^ 1
}

// Valid reports whether t is one of the two teams.
func (t Team) Valid() bool {
	return t <= Black
}

func (t Team) String() string {
	switch t {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("Team(%d)", uint8(t))
	}
}

// ParseTeam maps "white"/"w" or "black"/"b" to a team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "white", "w", "White":
		return White, nil
	case "black", "b", "Black":
		return Black, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTeam, s)
}

// PieceType is the kind of a piece. The numbering is part of the piece id
// encoding and must not change.
type PieceType uint8

const (
	Pawn   PieceType = 0
	Bishop PieceType = 1
	Rook   PieceType = 2
	Knight PieceType = 3
	Queen  PieceType = 4
	King   PieceType = 5
)

// Valid reports whether t names one of the six piece types.
func (t PieceType) Valid() bool {
	return t <= King
}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return fmt.Sprintf("PieceType(%d)", uint8(t))
	}
}

// Letter returns the upper-case letter used in diagrams (P, B, R, N, Q, K).
func (t PieceType) Letter() byte {
	return "PBRNQK"[t%6]
}

// ParsePieceType maps a piece letter (either case) or name to a type.
func ParsePieceType(s string) (PieceType, error) {
	switch s {
	case "P", "p", "pawn":
		return Pawn, nil
	case "B", "b", "bishop":
		return Bishop, nil
	case "R", "r", "rook":
		return Rook, nil
	case "N", "n", "knight":
		return Knight, nil
	case "Q", "q", "queen":
		return Queen, nil
	case "K", "k", "king":
		return King, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPieceType, s)
}

const teamBit = 1 << 3

// Piece is a compact piece id: the team bit (bit 3) or'ed with the 3-bit type.
type Piece uint8

// MakePiece encodes a team and type into a piece id.
func MakePiece(team Team, typ PieceType) Piece {
	p := Piece(typ & 7)
	if team == Black {
		p |= teamBit
	}
	return p
}

// Team decodes the owning team.
func (p Piece) Team() Team {
	if p&teamBit != 0 {
		return Black
	}
	return White
}

// Type decodes the piece type.
func (p Piece) Type() PieceType {
	return PieceType(p & 7)
}

// Valid reports whether p decodes to a real piece type.
func (p Piece) Valid() bool {
	return p < 2*teamBit && p.Type().Valid()
}

// Letter returns the diagram letter: upper case for White, lower case for Black.
func (p Piece) Letter() byte {
	l := p.Type().Letter()
	if p.Team() == Black {
		l += 'a' - 'A'
	}
	return l
}

func (p Piece) String() string {
	return p.Team().String() + " " + p.Type().String()
}
