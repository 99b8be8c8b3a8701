package session

import (
	"time"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/setup"
)

// GameView is the wire form of Info shared by the transports.
type GameView struct {
	ID              string            `json:"id"`
	Phase           string            `json:"phase"`
	Turn            string            `json:"turn"`
	Plies           int               `json:"plies"`
	Winner          string            `json:"winner,omitempty"`
	EndReason       string            `json:"end_reason,omitempty"`
	Status          map[string]string `json:"status"`
	Board           []string          `json:"board"`
	Diagram         string            `json:"diagram"`
	CastleForfeited map[string]bool   `json:"castle_forfeited"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// View converts the info for transport. Board lists the 64 squares from a1
// with a piece letter, or an empty string for an empty square.
func (i Info) View() GameView {
	v := GameView{
		ID:        i.ID,
		Phase:     i.Phase.String(),
		Turn:      i.State.Turn.String(),
		Plies:     i.Plies,
		EndReason: i.EndReason,
		Status: map[string]string{
			core.White.String(): i.Status[core.White].String(),
			core.Black.String(): i.Status[core.Black].String(),
		},
		Board:   make([]string, core.BoardSize),
		Diagram: setup.Diagram(i.State),
		CastleForfeited: map[string]bool{
			core.White.String(): i.State.CastleForfeited[core.White],
			core.Black.String(): i.State.CastleForfeited[core.Black],
		},
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	if i.Winner == int(core.White) || i.Winner == int(core.Black) {
		v.Winner = core.Team(i.Winner).String()
	}
	for sq := core.Square(0); sq < core.BoardSize; sq++ {
		if p, ok := i.State.Board.At(sq).Piece(); ok {
			v.Board[sq] = string(p.Letter())
		}
	}
	return v
}

// MoveView is the wire form of a committed move.
type MoveView struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Piece         string `json:"piece"`
	Captured      string `json:"captured,omitempty"`
	CapturedPiece string `json:"captured_piece,omitempty"`
	Castled       bool   `json:"castled"`
	Promotable    bool   `json:"promotable"`
}

// NewMoveView converts a move result for transport.
func NewMoveView(r game.MoveResult) MoveView {
	v := MoveView{
		From:       r.From.String(),
		To:         r.To.String(),
		Piece:      r.Piece.String(),
		Castled:    r.Castled,
		Promotable: r.Promotable,
	}
	if sq, ok := r.Captured.Get(); ok {
		v.Captured = sq.String()
		v.CapturedPiece = r.CapturedPiece.String()
	}
	return v
}
