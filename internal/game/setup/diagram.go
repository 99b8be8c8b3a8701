package setup

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// FromDiagram parses an eight-line board diagram, rank 8 first. Each line
// holds eight cells: '.' for empty, an upper-case piece letter (P B R N Q K)
// for White and a lower-case one for Black. Spaces inside a line are
// ignored, as are blank lines. White is to move and castling is open.
func FromDiagram(diagram string) (game.GameState, error) {
	var rows []string
	for _, line := range strings.Split(diagram, "\n") {
		row := strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if row != "" {
			rows = append(rows, row)
		}
	}
	if len(rows) != 8 {
		return game.GameState{}, fmt.Errorf("%w: diagram has %d ranks, want 8", core.ErrMalformedState, len(rows))
	}

	b := NewBuilder()
	for i, row := range rows {
		rank := 7 - i
		if len(row) != 8 {
			return game.GameState{}, fmt.Errorf("%w: rank %d has %d cells, want 8", core.ErrMalformedState, rank+1, len(row))
		}
		for file := 0; file < 8; file++ {
			c := row[file]
			if c == '.' {
				continue
			}
			team := core.White
			if c >= 'a' && c <= 'z' {
				team = core.Black
			}
			typ, err := core.ParsePieceType(string(c))
			if err != nil {
				return game.GameState{}, fmt.Errorf("rank %d file %c: %w", rank+1, 'a'+file, err)
			}
			sq, _ := core.NewSquare(file, rank)
			b.Place(sq, team, typ)
		}
	}
	return b.Build()
}

// Diagram renders gs in the compact form FromDiagram accepts.
func Diagram(gs game.GameState) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq, _ := core.NewSquare(file, rank)
			if p, ok := gs.Board.At(sq).Piece(); ok {
				sb.WriteByte(p.Letter())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
