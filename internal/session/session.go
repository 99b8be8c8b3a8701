package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/states"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/store"
)

// gameSession is one hosted game. mu serialises every engine call.
type gameSession struct {
	id string
	mu sync.Mutex

	game         *game.Game
	stateMachine *states.StateMachine
	eventBus     *events.EventBus
	idempotency  *IdempotencyManager

	status [2]game.Status
	plies  int
	custom bool

	createdAt    time.Time
	lastActivity time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// Info is a read-only view of a hosted game.
type Info struct {
	ID        string
	State     game.GameState
	Phase     states.GamePhase
	Status    [2]game.Status
	Winner    int
	EndReason string
	Plies     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Turn returns the side to move.
func (i Info) Turn() core.Team {
	return i.State.Turn
}

// infoLocked must be called with s.mu held.
func (s *gameSession) infoLocked() Info {
	ctx := s.stateMachine.GetContext()
	return Info{
		ID:        s.id,
		State:     s.game.State(),
		Phase:     s.stateMachine.CurrentPhase(),
		Status:    s.status,
		Winner:    ctx.Winner,
		EndReason: ctx.EndReason,
		Plies:     s.plies,
		CreatedAt: s.createdAt,
		UpdatedAt: s.lastActivity,
	}
}

// snapshotLocked must be called with s.mu held.
func (s *gameSession) snapshotLocked() store.Snapshot {
	snap := store.FromState(s.id, s.game.State())
	ctx := s.stateMachine.GetContext()
	snap.Phase = s.stateMachine.CurrentPhase().String()
	snap.Winner = ctx.Winner
	snap.Plies = s.plies
	snap.CreatedAt = s.createdAt
	snap.UpdatedAt = s.lastActivity
	return snap
}

// refreshStatusLocked recomputes both teams' status, publishes changes and
// ends the game when a king is mated.
func (s *gameSession) refreshStatusLocked() {
	for _, team := range []core.Team{core.White, core.Black} {
		next := s.game.Status(team)
		prev := s.status[team]
		if next == prev {
			continue
		}
		s.status[team] = next
		s.eventBus.Publish(events.NewStatusChangedEvent(s.id, team.String(), prev.String(), next.String()))
	}

	if s.stateMachine.CurrentPhase() != states.PhaseRunning {
		return
	}
	for _, team := range []core.Team{core.White, core.Black} {
		if s.status[team] != game.Mate {
			continue
		}
		winner := team.Opponent()
		reason := fmt.Sprintf("%s king mated", team)
		if err := s.stateMachine.End(int(winner), reason); err != nil {
			s.stateMachine.GetContext().Logger.Error().Err(err).Msg("Failed to end game")
			return
		}
		s.eventBus.Publish(events.NewGameEndedEvent(s.id, winner.String(), reason, s.plies))
		return
	}
}

func (s *gameSession) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// watcher forwards every event of a game to a handler.
type watcher struct {
	id string
	fn events.EventHandler
}

func newWatcher(fn events.EventHandler) *watcher {
	return &watcher{id: "watch_" + uuid.NewString(), fn: fn}
}

func (w *watcher) ID() string                 { return w.id }
func (w *watcher) HandleEvent(e events.Event) { w.fn(e) }
func (w *watcher) InterestedIn(_ string) bool { return true }
