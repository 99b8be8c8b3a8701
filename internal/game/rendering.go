package game

import (
	"strings"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
)

// ANSI color codes for console rendering
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorBlue   = "\033[34m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"

	BgYellow = "\033[43m"
)

var teamColors = [2]string{ColorRed, ColorBlue}

// RenderOptions controls Render.
type RenderOptions struct {
	// Color enables ANSI team colors.
	Color bool
	// Highlight marks squares, typically the legal destinations of a piece.
	Highlight []core.Square
}

// String renders the board as plain ASCII, rank 8 at the top. Upper-case
// letters are White, lower-case Black, dots are empty squares.
func (gs GameState) String() string {
	return Render(&gs, RenderOptions{})
}

// Render draws gs with the given options.
func Render(gs *GameState, opts RenderOptions) string {
	const EmptySymbol = "."

	var sb strings.Builder
	sb.Grow(512)

	sb.WriteString("  +-----------------+\n")
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString(" |")
		for file := 0; file < 8; file++ {
			sq, _ := core.NewSquare(file, rank)
			sb.WriteByte(' ')

			highlighted := core.ContainsMove(opts.Highlight, sq)
			if highlighted {
				if opts.Color {
					sb.WriteString(BgYellow)
				} else {
					sb.WriteByte('*')
					continue
				}
			}

			p, ok := gs.Board.At(sq).Piece()
			switch {
			case !ok && opts.Color:
				sb.WriteString(ColorGray)
				sb.WriteString(EmptySymbol)
				sb.WriteString(ColorReset)
			case !ok:
				sb.WriteString(EmptySymbol)
			case opts.Color:
				sb.WriteString(teamColors[p.Team()])
				sb.WriteByte(p.Letter())
				sb.WriteString(ColorReset)
			default:
				sb.WriteByte(p.Letter())
			}
			if highlighted {
				sb.WriteString(ColorReset)
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("  +-----------------+\n")
	sb.WriteString("    a b c d e f g h\n")
	return sb.String()
}
