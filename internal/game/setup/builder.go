package setup

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// Builder assembles a custom position piece by piece. Errors are collected
// and reported together by Build.
type Builder struct {
	gs   game.GameState
	errs []error
}

// NewBuilder starts from an empty board with White to move and castling open.
func NewBuilder() *Builder {
	return &Builder{}
}

// Place puts a piece on sq, replacing whatever stood there.
func (b *Builder) Place(sq core.Square, team core.Team, typ core.PieceType) *Builder {
	switch {
	case !sq.Valid():
		b.errs = append(b.errs, fmt.Errorf("place: %w: %d", core.ErrInvalidSquare, sq))
	case !team.Valid():
		b.errs = append(b.errs, fmt.Errorf("place %s: %w: %d", sq, core.ErrInvalidTeam, team))
	case !typ.Valid():
		b.errs = append(b.errs, fmt.Errorf("place %s: %w: %d", sq, core.ErrInvalidPieceType, typ))
	default:
		b.gs.Board.Set(sq, core.MakePiece(team, typ))
	}
	return b
}

// PlaceNamed is Place with an algebraic square name such as "e1".
func (b *Builder) PlaceNamed(name string, team core.Team, typ core.PieceType) *Builder {
	sq, err := core.ParseSquare(name)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("place: %w", err))
		return b
	}
	return b.Place(sq, team, typ)
}

// Turn sets the side to move.
func (b *Builder) Turn(team core.Team) *Builder {
	if !team.Valid() {
		b.errs = append(b.errs, fmt.Errorf("turn: %w: %d", core.ErrInvalidTeam, team))
		return b
	}
	b.gs.Turn = team
	return b
}

// ForfeitCastling marks team as having lost its castling right.
func (b *Builder) ForfeitCastling(team core.Team) *Builder {
	if !team.Valid() {
		b.errs = append(b.errs, fmt.Errorf("forfeit: %w: %d", core.ErrInvalidTeam, team))
		return b
	}
	b.gs.CastleForfeited[team] = true
	return b
}

// Build locates both kings, fills the king cache and validates the result.
func (b *Builder) Build() (game.GameState, error) {
	if len(b.errs) > 0 {
		return game.GameState{}, errors.Join(b.errs...)
	}
	gs := b.gs
	for _, team := range []core.Team{core.White, core.Black} {
		if sq, ok := gs.Board.FindKing(team); ok {
			gs.Kings[team] = sq
		}
	}
	if err := gs.Validate(); err != nil {
		return game.GameState{}, err
	}
	return gs, nil
}
