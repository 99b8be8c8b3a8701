package game

import (
	"fmt"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// Status is derived on demand for one team; it is never stored.
type Status uint8

const (
	// Normal means the king is not attacked.
	Normal Status = iota
	// Check means the king is attacked and has at least one move of its own.
	Check
	// Mate means the king is attacked and has no move of its own, which is
	// always the case while its team is not to move. Blocks or captures by
	// other pieces are not considered.
	Mate
)

func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Check:
		return "check"
	case Mate:
		return "mate"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// MoveResult describes a committed move.
type MoveResult struct {
	From  core.Square
	To    core.Square
	Piece core.Piece
	// Captured is set when an enemy piece was removed from To.
	Captured      core.OptSquare
	CapturedPiece core.Piece
	// Castled marks a king and rook swap. The turn does not pass after it.
	Castled bool
	// Promotable marks a pawn that reached the far rank. Its team may promote
	// it once that team is to move again.
	Promotable bool
}

// IsCapture reports whether the move removed a piece.
func (r MoveResult) IsCapture() bool {
	return r.Captured.Valid
}
