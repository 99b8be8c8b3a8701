package store

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// Snapshot is the persisted form of a hosted game: the full position plus
// the session bookkeeping needed to resume it.
type Snapshot struct {
	GameID string `json:"game_id" bson:"game_id"`

	// Board holds one piece id per square, nil for an empty square.
	Board           []*int `json:"board" bson:"board"`
	Kings           []int  `json:"kings" bson:"kings"`
	Turn            int    `json:"turn" bson:"turn"`
	CastleForfeited []bool `json:"castle_forfeited" bson:"castle_forfeited"`
	EnPassant       []*int `json:"en_passant" bson:"en_passant"`

	Phase     string    `json:"phase" bson:"phase"`
	Winner    int       `json:"winner" bson:"winner"`
	Plies     int       `json:"plies" bson:"plies"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FromState encodes gs into a snapshot for gameID. Session fields are left
// for the caller to fill.
func FromState(gameID string, gs game.GameState) Snapshot {
	snap := Snapshot{
		GameID:          gameID,
		Board:           make([]*int, core.BoardSize),
		Kings:           []int{int(gs.Kings[core.White]), int(gs.Kings[core.Black])},
		Turn:            int(gs.Turn),
		CastleForfeited: []bool{gs.CastleForfeited[core.White], gs.CastleForfeited[core.Black]},
		EnPassant:       []*int{optSquare(gs.EnPassant[core.White]), optSquare(gs.EnPassant[core.Black])},
	}
	for sq := core.Square(0); sq < core.BoardSize; sq++ {
		if p, ok := gs.Board.At(sq).Piece(); ok {
			id := int(p)
			snap.Board[sq] = &id
		}
	}
	return snap
}

func optSquare(o core.OptSquare) *int {
	sq, ok := o.Get()
	if !ok {
		return nil
	}
	v := int(sq)
	return &v
}

// State decodes the position and validates it.
func (s Snapshot) State() (game.GameState, error) {
	var gs game.GameState
	if len(s.Board) != core.BoardSize {
		return gs, fmt.Errorf("%w: board has %d cells", core.ErrMalformedState, len(s.Board))
	}
	if len(s.Kings) != 2 || len(s.CastleForfeited) != 2 || len(s.EnPassant) != 2 {
		return gs, fmt.Errorf("%w: per-team fields must have two entries", core.ErrMalformedState)
	}
	if s.Turn < 0 || s.Turn > 1 {
		return gs, fmt.Errorf("%w: turn %d", core.ErrMalformedState, s.Turn)
	}

	for i, id := range s.Board {
		if id == nil {
			continue
		}
		if *id < 0 || *id > 0xff || !core.Piece(*id).Valid() {
			return gs, fmt.Errorf("%w: piece id %d at index %d", core.ErrMalformedState, *id, i)
		}
		gs.Board.Set(core.Square(i), core.Piece(*id))
	}

	for team := 0; team < 2; team++ {
		king, err := core.SquareFromIndex(s.Kings[team])
		if err != nil {
			return gs, fmt.Errorf("%w: king: %w", core.ErrMalformedState, err)
		}
		gs.Kings[team] = king
		gs.CastleForfeited[team] = s.CastleForfeited[team]
		ep, err := decodeOpt(s.EnPassant[team])
		if err != nil {
			return gs, err
		}
		gs.EnPassant[team] = ep
	}
	gs.Turn = core.Team(s.Turn)

	if err := gs.Validate(); err != nil {
		return game.GameState{}, err
	}
	return gs, nil
}

func decodeOpt(v *int) (core.OptSquare, error) {
	if v == nil {
		return core.OptSquare{}, nil
	}
	sq, err := core.SquareFromIndex(*v)
	if err != nil {
		return core.OptSquare{}, fmt.Errorf("%w: %w", core.ErrMalformedState, err)
	}
	return core.SomeSquare(sq), nil
}
