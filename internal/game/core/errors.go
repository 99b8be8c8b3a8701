package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSquare    = errors.New("invalid square")
	ErrSameSquare       = errors.New("source and destination are the same square")
	ErrEmptySquare      = errors.New("no piece on square")
	ErrNotThisTurn      = errors.New("not this team's turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidPromotion = errors.New("invalid promotion")
	ErrInvalidPieceType = errors.New("invalid piece type")
	ErrInvalidTeam      = errors.New("invalid team")
	ErrMalformedState   = errors.New("malformed game state")
)

// MoveError records which move was rejected and why.
type MoveError struct {
	From int
	To   int
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s-%s: %v", label(e.From), label(e.To), e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// WrapMoveError attaches the move's squares to err. A nil err stays nil.
func WrapMoveError(from, to int, err error) error {
	if err == nil {
		return nil
	}
	return &MoveError{From: from, To: to, Err: err}
}

// WrapSquareError prefixes err with the square an operation was applied to.
func WrapSquareError(sq int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", operation, label(sq), err)
}

func label(idx int) string {
	if name, err := SquareName(idx); err == nil {
		return name
	}
	return fmt.Sprintf("#%d", idx)
}
