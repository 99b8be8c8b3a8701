package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/rules"
)

// Game owns one position and answers the public rule queries against it.
// It does no locking: callers sharing a Game must serialise access.
type Game struct {
	gs     GameState
	logger zerolog.Logger
}

// NewGame returns a game in the standard opening position.
func NewGame(logger zerolog.Logger) *Game {
	g := &Game{logger: logger.With().Str("component", "ChessGame").Logger()}
	g.Initialize()
	return g
}

// NewGameFromState adopts an existing position after validating it.
func NewGameFromState(gs GameState, logger zerolog.Logger) (*Game, error) {
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		gs:     gs,
		logger: logger.With().Str("component", "ChessGame").Logger(),
	}, nil
}

// Initialize resets the game to the standard opening position.
func (g *Game) Initialize() {
	g.gs = StandardState()
	g.logger.Debug().Msg("Game initialized")
}

// Move validates and, if legal, commits the move from-to. A nil error means
// the move was committed; otherwise the position is left untouched and the
// error is a *core.MoveError wrapping one of the core sentinels.
func (g *Game) Move(from, to int) (MoveResult, error) {
	src, dst, err := g.checkMove(from, to)
	if err != nil {
		g.logger.Debug().Int("from", from).Int("to", to).Err(err).Msg("Move rejected")
		return MoveResult{}, err
	}

	mover, _ := g.gs.Board.At(src).Piece()
	team := mover.Team()
	result := MoveResult{From: src, To: dst, Piece: mover}

	legal := rules.LegalMoves(&g.gs.Board, g.gs.Kings, src)
	switch {
	case legal.Contains(dst):
		if victim, ok := g.gs.Board.At(dst).Piece(); ok {
			result.Captured = core.SomeSquare(dst)
			result.CapturedPiece = victim
		}
		g.gs.Board.Relocate(src, dst)
		if mover.Type() == core.King {
			g.gs.Kings[team] = dst
			g.gs.CastleForfeited[team] = true
		}
		result.Promotable = mover.Type() == core.Pawn && onFarRank(team, dst)
		g.gs.Turn = team.Opponent()
	case g.castleTargets(src).Contains(dst):
		rules.ExecuteCastle(&g.gs.Board, &g.gs.Kings, src, dst)
		g.gs.CastleForfeited[team] = true
		result.Castled = true
	default:
		err := core.WrapMoveError(from, to, core.ErrIllegalMove)
		g.logger.Debug().Int("from", from).Int("to", to).Err(err).Msg("Move rejected")
		return MoveResult{}, err
	}

	g.logger.Debug().
		Str("piece", mover.String()).
		Str("from", src.String()).
		Str("to", dst.String()).
		Bool("capture", result.IsCapture()).
		Bool("castled", result.Castled).
		Msg("Move committed")
	return result, nil
}

// checkMove performs the argument and turn checks shared by every move.
func (g *Game) checkMove(from, to int) (core.Square, core.Square, error) {
	src, err := core.SquareFromIndex(from)
	if err != nil {
		return 0, 0, core.WrapMoveError(from, to, core.ErrInvalidSquare)
	}
	dst, err := core.SquareFromIndex(to)
	if err != nil {
		return 0, 0, core.WrapMoveError(from, to, core.ErrInvalidSquare)
	}
	if src == dst {
		return 0, 0, core.WrapMoveError(from, to, core.ErrSameSquare)
	}
	p, ok := g.gs.Board.At(src).Piece()
	if !ok {
		return 0, 0, core.WrapMoveError(from, to, core.ErrEmptySquare)
	}
	if p.Team() != g.gs.Turn {
		return 0, 0, core.WrapMoveError(from, to, core.ErrNotThisTurn)
	}
	return src, dst, nil
}

func (g *Game) castleTargets(from core.Square) core.MoveList {
	return rules.CastleTargets(&g.gs.Board, g.gs.CastleForfeited, from)
}

// LegalMoves returns exactly the destinations Move accepts from sq, castling
// partners appended last. It is empty for invalid or vacant squares and for
// pieces whose team is not to move.
func (g *Game) LegalMoves(sq int) core.MoveList {
	var none core.MoveList
	from, err := core.SquareFromIndex(sq)
	if err != nil {
		return none
	}
	p, ok := g.gs.Board.At(from).Piece()
	if !ok || p.Team() != g.gs.Turn {
		return none
	}
	moves := rules.LegalMoves(&g.gs.Board, g.gs.Kings, from)
	castles := g.castleTargets(from)
	for _, to := range castles.Squares() {
		if !moves.Contains(to) {
			moves.Add(to)
		}
	}
	return moves
}

// Promote replaces a pawn of the side to move standing on its far rank with
// a piece of type t. It does not pass the turn.
func (g *Game) Promote(sq int, t core.PieceType) error {
	at, err := core.SquareFromIndex(sq)
	if err != nil {
		return core.WrapSquareError(sq, "promote", core.ErrInvalidSquare)
	}
	if err := g.checkPromotion(at, t); err != nil {
		g.logger.Debug().Int("square", sq).Str("type", t.String()).Err(err).Msg("Promotion rejected")
		return core.WrapSquareError(sq, "promote", err)
	}

	p, _ := g.gs.Board.At(at).Piece()
	g.gs.Board.Set(at, core.MakePiece(p.Team(), t))
	g.logger.Debug().Str("square", at.String()).Str("type", t.String()).Msg("Pawn promoted")
	return nil
}

func (g *Game) checkPromotion(at core.Square, t core.PieceType) error {
	p, ok := g.gs.Board.At(at).Piece()
	if !ok {
		return core.ErrEmptySquare
	}
	if p.Type() != core.Pawn {
		return fmt.Errorf("%w: %s is not a pawn", core.ErrInvalidPromotion, p)
	}
	if p.Team() != g.gs.Turn {
		return core.ErrNotThisTurn
	}
	if !onFarRank(p.Team(), at) {
		return fmt.Errorf("%w: pawn on %s has not reached the far rank", core.ErrInvalidPromotion, at)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %d", core.ErrInvalidPieceType, t)
	}
	if t == core.Pawn || t == core.King {
		return fmt.Errorf("%w: cannot promote to %s", core.ErrInvalidPromotion, t)
	}
	return nil
}

func onFarRank(team core.Team, sq core.Square) bool {
	if team == core.White {
		return sq >= 56
	}
	return sq <= 7
}

// Status derives Normal, Check or Mate for team from the moves LegalMoves
// grants its king. A king attacked while its team is not to move has none
// and is reported Mate.
func (g *Game) Status(team core.Team) Status {
	if !team.Valid() {
		return Normal
	}
	king := g.gs.Kings[team]
	if !rules.IsAttacked(&g.gs.Board, king) {
		return Normal
	}
	if g.LegalMoves(int(king)).Len() == 0 {
		return Mate
	}
	return Check
}

// Turn returns the side to move.
func (g *Game) Turn() core.Team {
	return g.gs.Turn
}

// PieceAt returns the cell on sq, or ErrInvalidSquare for an out-of-range index.
func (g *Game) PieceAt(sq int) (core.Cell, error) {
	at, err := core.SquareFromIndex(sq)
	if err != nil {
		return core.EmptyCell, err
	}
	return g.gs.Board.At(at), nil
}

// State returns a copy of the current position.
func (g *Game) State() GameState {
	return g.gs
}

func (g *Game) String() string {
	return fmt.Sprintf("%s%s to move\n", g.gs.String(), g.gs.Turn)
}
