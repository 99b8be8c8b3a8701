package core

import "fmt"

// BoardSize is the number of squares on the board.
const BoardSize = 64

// Square is a board index in row-major order: 0 is a1, 7 is h1, 63 is h8.
type Square int8

// NewSquare builds a square from zero-based file and rank. It returns false
// when either coordinate falls off the board.
func NewSquare(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return Square(rank*8 + file), true
}

// SquareFromIndex validates an untyped index coming from a caller.
func SquareFromIndex(idx int) (Square, error) {
	if idx < 0 || idx >= BoardSize {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSquare, idx)
	}
	return Square(idx), nil
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s >= 0 && s < BoardSize
}

// File returns the zero-based file (0 = a).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the zero-based rank (0 = rank 1).
func (s Square) Rank() int { return int(s) / 8 }

// String returns the algebraic label, e.g. "b7".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Square(%d)", int8(s))
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// SquareName labels an index with its file letter and rank digit.
func SquareName(idx int) (string, error) {
	sq, err := SquareFromIndex(idx)
	if err != nil {
		return "", err
	}
	return sq.String(), nil
}

// ParseSquare is the inverse of SquareName.
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	sq, ok := NewSquare(int(name[0])-'a', int(name[1])-'1')
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return sq, nil
}

// OptSquare is a square that may be absent.
type OptSquare struct {
	Square Square
	Valid  bool
}

// SomeSquare wraps a present square.
func SomeSquare(sq Square) OptSquare {
	return OptSquare{Square: sq, Valid: true}
}

// Get returns the square and whether it is present.
func (o OptSquare) Get() (Square, bool) {
	return o.Square, o.Valid
}

func (o OptSquare) String() string {
	if !o.Valid {
		return "-"
	}
	return o.Square.String()
}
