package states

import (
	"time"

	"github.com/rs/zerolog"
)

// NoWinner marks a game that has not been decided.
const NoWinner = -1

// GameContext provides session information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// StartTime is when PhaseRunning was entered
	StartTime time.Time

	// EndTime is when PhaseEnded was entered
	EndTime time.Time

	// Winner is the winning team (0 or 1), or NoWinner
	Winner int

	// EndReason describes why the game ended
	EndReason string

	// Error holds any error that caused transition to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
		Winner: NoWinner,
	}
}

// GetElapsedTime returns the time spent running, up to the end if the game ended
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
