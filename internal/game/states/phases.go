package states

import "fmt"

// GamePhase represents the lifecycle phase of a hosted game
type GamePhase int

const (
	// PhaseInitializing - session created, position being set up
	PhaseInitializing GamePhase = iota

	// PhaseRunning - moves are accepted
	PhaseRunning

	// PhaseEnded - a king was mated
	PhaseEnded

	// PhaseError - the session hit an unrecoverable error
	PhaseError

	// PhaseReset - returning to a fresh position without a new session
	PhaseReset
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	case PhaseReset:
		return "Reset"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveMoves returns true if moves and promotions are accepted in this phase
func (p GamePhase) CanReceiveMoves() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []GamePhase{PhaseEnded, PhaseError}
	case PhaseEnded:
		return []GamePhase{PhaseReset}
	case PhaseError:
		return []GamePhase{PhaseReset}
	case PhaseReset:
		return []GamePhase{PhaseInitializing}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	switch s {
	case "Initializing":
		return PhaseInitializing, nil
	case "Running":
		return PhaseRunning, nil
	case "Ended":
		return PhaseEnded, nil
	case "Error":
		return PhaseError, nil
	case "Reset":
		return PhaseReset, nil
	default:
		return PhaseInitializing, fmt.Errorf("unknown phase %q", s)
	}
}
