package events

// Event type constants
const (
	TypeGameCreated     = "game.created"
	TypeGameEnded       = "game.ended"
	TypeMoveCommitted   = "move.committed"
	TypeMoveRejected    = "move.rejected"
	TypeCastleCommitted = "castle.committed"
	TypePawnPromoted    = "pawn.promoted"
	TypeStatusChanged   = "status.changed"
	TypeStateTransition = "state.transition"
)

// AllTypes lists every event type, e.g. for stream filters.
var AllTypes = []string{
	TypeGameCreated,
	TypeGameEnded,
	TypeMoveCommitted,
	TypeMoveRejected,
	TypeCastleCommitted,
	TypePawnPromoted,
	TypeStatusChanged,
	TypeStateTransition,
}

// GameCreatedEvent is published when a session is opened.
type GameCreatedEvent struct {
	BaseEvent
	Turn   string `json:"turn"`
	Custom bool   `json:"custom"`
}

// NewGameCreatedEvent creates a new GameCreatedEvent
func NewGameCreatedEvent(gameID, turn string, custom bool) *GameCreatedEvent {
	return &GameCreatedEvent{
		BaseEvent: newBase(TypeGameCreated, gameID),
		Turn:      turn,
		Custom:    custom,
	}
}

// GameEndedEvent is published when a king is mated.
type GameEndedEvent struct {
	BaseEvent
	Winner string `json:"winner"`
	Reason string `json:"reason"`
	Plies  int    `json:"plies"`
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID, winner, reason string, plies int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID),
		Winner:    winner,
		Reason:    reason,
		Plies:     plies,
	}
}

// MoveCommittedEvent is published after a move was applied. Squares use
// algebraic names.
type MoveCommittedEvent struct {
	BaseEvent
	Team          string `json:"team"`
	Piece         string `json:"piece"`
	From          string `json:"from"`
	To            string `json:"to"`
	Captured      string `json:"captured,omitempty"`
	CapturedPiece string `json:"captured_piece,omitempty"`
	Castled       bool   `json:"castled"`
	Promotable    bool   `json:"promotable"`
	Ply           int    `json:"ply"`
	NextTurn      string `json:"next_turn"`
}

// NewMoveCommittedEvent creates a new MoveCommittedEvent
func NewMoveCommittedEvent(gameID string, m MoveCommittedEvent) *MoveCommittedEvent {
	m.BaseEvent = newBase(TypeMoveCommitted, gameID)
	return &m
}

// MoveRejectedEvent is published when a submitted move was refused.
type MoveRejectedEvent struct {
	BaseEvent
	Team   string `json:"team"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Reason string `json:"reason"`
}

// NewMoveRejectedEvent creates a new MoveRejectedEvent
func NewMoveRejectedEvent(gameID, team string, from, to int, reason string) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID),
		Team:      team,
		From:      from,
		To:        to,
		Reason:    reason,
	}
}

// CastleCommittedEvent is published alongside the move event of a castle.
type CastleCommittedEvent struct {
	BaseEvent
	Team       string `json:"team"`
	KingSquare string `json:"king_square"`
	RookSquare string `json:"rook_square"`
}

// NewCastleCommittedEvent creates a new CastleCommittedEvent
func NewCastleCommittedEvent(gameID, team, kingSquare, rookSquare string) *CastleCommittedEvent {
	return &CastleCommittedEvent{
		BaseEvent:  newBase(TypeCastleCommitted, gameID),
		Team:       team,
		KingSquare: kingSquare,
		RookSquare: rookSquare,
	}
}

// PawnPromotedEvent is published after a promotion.
type PawnPromotedEvent struct {
	BaseEvent
	Team    string `json:"team"`
	Square  string `json:"square"`
	NewType string `json:"new_type"`
}

// NewPawnPromotedEvent creates a new PawnPromotedEvent
func NewPawnPromotedEvent(gameID, team, square, newType string) *PawnPromotedEvent {
	return &PawnPromotedEvent{
		BaseEvent: newBase(TypePawnPromoted, gameID),
		Team:      team,
		Square:    square,
		NewType:   newType,
	}
}

// StatusChangedEvent is published when a team's derived status changes.
type StatusChangedEvent struct {
	BaseEvent
	Team     string `json:"team"`
	Previous string `json:"previous"`
	Status   string `json:"status"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(gameID, team, previous, status string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent: newBase(TypeStatusChanged, gameID),
		Team:      team,
		Previous:  previous,
		Status:    status,
	}
}

// StateTransitionEvent is published when the session lifecycle changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
