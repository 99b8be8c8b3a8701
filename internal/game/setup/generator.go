package setup

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/rules"
)

// PositionConfig holds configuration for random position generation
type PositionConfig struct {
	PiecesPerTeam  int // not counting the king
	MinKingSpacing int // Chebyshev distance between the kings
	MaxAttempts    int
}

// DefaultPositionConfig returns a sensible default configuration
func DefaultPositionConfig() PositionConfig {
	return PositionConfig{
		PiecesPerTeam:  6,
		MinKingSpacing: 2,
		MaxAttempts:    100,
	}
}

// Generator produces random positions with a deterministic RNG. Positions
// are structurally valid and the side not to move is never in check.
type Generator struct {
	config PositionConfig
	rng    *rand.Rand
}

// NewGenerator creates a new position generator
func NewGenerator(config PositionConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

var randomTypes = [...]core.PieceType{core.Pawn, core.Pawn, core.Pawn, core.Knight, core.Bishop, core.Rook, core.Queen}

// Generate returns a random position with White to move and castling forfeited.
func (g *Generator) Generate() (game.GameState, error) {
	if g.config.PiecesPerTeam < 0 || 2*g.config.PiecesPerTeam+2 > core.BoardSize {
		return game.GameState{}, fmt.Errorf("%w: %d pieces per team", core.ErrMalformedState, g.config.PiecesPerTeam)
	}
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		gs, ok := g.tryGenerate()
		if ok {
			return gs, nil
		}
	}
	return game.GameState{}, fmt.Errorf("no legal position found after %d attempts", g.config.MaxAttempts)
}

func (g *Generator) tryGenerate() (game.GameState, bool) {
	var gs game.GameState
	gs.CastleForfeited = [2]bool{true, true}

	whiteKing := core.Square(g.rng.Intn(core.BoardSize))
	blackKing := core.Square(g.rng.Intn(core.BoardSize))
	if kingDistance(whiteKing, blackKing) < g.config.MinKingSpacing {
		return gs, false
	}
	gs.Board.Set(whiteKing, core.MakePiece(core.White, core.King))
	gs.Board.Set(blackKing, core.MakePiece(core.Black, core.King))
	gs.Kings = [2]core.Square{whiteKing, blackKing}

	for _, team := range []core.Team{core.White, core.Black} {
		for placed := 0; placed < g.config.PiecesPerTeam; {
			sq := core.Square(g.rng.Intn(core.BoardSize))
			if !gs.Board.At(sq).IsEmpty() {
				continue
			}
			typ := randomTypes[g.rng.Intn(len(randomTypes))]
			if typ == core.Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
				continue
			}
			gs.Board.Set(sq, core.MakePiece(team, typ))
			placed++
		}
	}

	if rules.IsAttacked(&gs.Board, blackKing) {
		return gs, false
	}
	return gs, true
}

func kingDistance(a, b core.Square) int {
	df := abs(a.File() - b.File())
	dr := abs(a.Rank() - b.Rank())
	if df > dr {
		return df
	}
	return dr
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
