package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/setup"
)

const mateInOne = `
....k...
........
........
........
........
........
..PPP..r
...K....
`

const promotion = `
.......k
.P......
........
........
........
........
........
K.......
`

// opening reaches a queen-side castle: d2-d4, Nb1-c3, Bc1-f4 clear the way
// while Black develops the g8 knight.
var opening = [][2]string{
	{"d2", "d4"},
	{"g8", "f6"},
	{"b1", "c3"},
	{"f6", "e4"},
	{"c1", "f4"},
	{"e7", "e6"},
	{"d1", "a1"},
}

type demo struct {
	out    io.Writer
	color  bool
	logger zerolog.Logger
}

func main() {
	color := flag.Bool("color", true, "Render with ANSI colors")
	verbose := flag.Bool("v", false, "Log engine decisions")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the random position")
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}

	d := demo{out: os.Stdout, color: *color, logger: logger}
	if err := d.run(*seed); err != nil {
		fmt.Fprintln(os.Stderr, "demo failed:", err)
		os.Exit(1)
	}
}

func (d demo) run(seed int64) error {
	if err := d.playOpening(); err != nil {
		return err
	}
	if err := d.playMate(); err != nil {
		return err
	}
	if err := d.playPromotion(); err != nil {
		return err
	}
	return d.showRandom(seed)
}

func (d demo) section(title string) {
	fmt.Fprintf(d.out, "\n=== %s ===\n", title)
}

func (d demo) board(g *game.Game, highlight ...core.Square) {
	gs := g.State()
	fmt.Fprint(d.out, game.Render(&gs, game.RenderOptions{Color: d.color, Highlight: highlight}))
	fmt.Fprintf(d.out, "%s to move | white: %s | black: %s\n", g.Turn(), g.Status(core.White), g.Status(core.Black))
}

func (d demo) move(g *game.Game, from, to string) (game.MoveResult, error) {
	src, err := core.ParseSquare(from)
	if err != nil {
		return game.MoveResult{}, err
	}
	dst, err := core.ParseSquare(to)
	if err != nil {
		return game.MoveResult{}, err
	}
	result, err := g.Move(int(src), int(dst))
	if err != nil {
		return game.MoveResult{}, err
	}

	fmt.Fprintf(d.out, "\n%s %s-%s", result.Piece, result.From, result.To)
	if result.IsCapture() {
		fmt.Fprintf(d.out, " takes %s", result.CapturedPiece)
	}
	if result.Castled {
		fmt.Fprint(d.out, " (castle, same side moves again)")
	}
	fmt.Fprintln(d.out)
	d.board(g)
	return result, nil
}

func (d demo) playOpening() error {
	d.section("Opening")
	g := game.NewGame(d.logger)

	knight, _ := core.ParseSquare("b1")
	fmt.Fprintln(d.out, "Knight on b1 may go to:", g.LegalMoves(int(knight)).Squares())
	d.board(g, g.LegalMoves(int(knight)).Squares()...)

	for _, m := range opening {
		if _, err := d.move(g, m[0], m[1]); err != nil {
			return fmt.Errorf("opening %s-%s: %w", m[0], m[1], err)
		}
	}

	// Castling rights are gone once the king has moved.
	gs := g.State()
	fmt.Fprintf(d.out, "castling forfeited: white=%t black=%t\n", gs.CastleForfeited[core.White], gs.CastleForfeited[core.Black])
	fmt.Fprintln(d.out, "King on a1 may go to:", g.LegalMoves(int(gs.Kings[core.White])).Squares())

	if _, err := d.move(g, "e4", "c3"); err != nil {
		fmt.Fprintln(d.out, "rejected:", err)
	}
	return nil
}

func (d demo) playMate() error {
	d.section("Mate")
	gs, err := setup.FromDiagram(mateInOne)
	if err != nil {
		return err
	}
	gs.Turn = core.Black
	g, err := game.NewGameFromState(gs, d.logger)
	if err != nil {
		return err
	}
	d.board(g)
	if _, err := d.move(g, "h2", "h1"); err != nil {
		return err
	}
	if g.Status(core.White) != game.Mate {
		return fmt.Errorf("expected mate, got %s", g.Status(core.White))
	}
	return nil
}

func (d demo) playPromotion() error {
	d.section("Promotion")
	gs, err := setup.FromDiagram(promotion)
	if err != nil {
		return err
	}
	g, err := game.NewGameFromState(gs, d.logger)
	if err != nil {
		return err
	}
	result, err := d.move(g, "b7", "b8")
	if err != nil {
		return err
	}
	// The pawn's owner promotes on its next turn.
	if err := g.Promote(int(result.To), core.Queen); err != nil {
		fmt.Fprintln(d.out, "promotion now rejected:", err)
	}
	if _, err := d.move(g, "h8", "h7"); err != nil {
		return err
	}
	if err := g.Promote(int(result.To), core.Queen); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "\npawn on %s promoted to queen\n", result.To)
	d.board(g)
	return nil
}

func (d demo) showRandom(seed int64) error {
	d.section(fmt.Sprintf("Random position (seed %d)", seed))
	gen := setup.NewGenerator(setup.DefaultPositionConfig(), rand.New(rand.NewSource(seed)))
	gs, err := gen.Generate()
	if err != nil {
		return err
	}
	g, err := game.NewGameFromState(gs, d.logger)
	if err != nil {
		return err
	}
	d.board(g)

	total := 0
	for sq := 0; sq < core.BoardSize; sq++ {
		total += g.LegalMoves(sq).Len()
	}
	fmt.Fprintf(d.out, "%s has %d legal moves\n", g.Turn(), total)
	return nil
}
