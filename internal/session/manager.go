package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/core"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/states"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/store"
)

// Config bounds the number of hosted games and how long they are kept.
type Config struct {
	MaxGames        int
	IdleTimeout     time.Duration
	FinishedTTL     time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxGames:        100,
		IdleTimeout:     30 * time.Minute,
		FinishedTTL:     5 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// CreateOptions customise a new game.
type CreateOptions struct {
	// State starts the game from a custom position instead of the opening.
	State *game.GameState
}

// Seats holds the tokens for both sides of a new game. Both are empty when
// the manager runs without a SeatIssuer.
type Seats struct {
	White string
	Black string
}

// MoveRequest asks to move the piece on From to To.
type MoveRequest struct {
	GameID    string
	SeatToken string
	RequestID string
	From      int
	To        int
}

// PromoteRequest asks to replace the pawn on Square with Type.
type PromoteRequest struct {
	GameID    string
	SeatToken string
	RequestID string
	Square    int
	Type      core.PieceType
}

// Manager hosts many games and serialises access to each one.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*gameSession

	cfg    Config
	store  store.Store
	seats  *SeatIssuer
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a manager. st and seats may be nil: without a store
// nothing is persisted, without an issuer moves are not authorised.
func NewManager(cfg Config, st store.Store, seats *SeatIssuer, logger zerolog.Logger) *Manager {
	return &Manager{
		games:  make(map[string]*gameSession),
		cfg:    cfg,
		store:  st,
		seats:  seats,
		logger: logger.With().Str("component", "SessionManager").Logger(),
		now:    time.Now,
	}
}

// Create opens a new game in PhaseRunning.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (Info, Seats, error) {
	if err := m.checkCapacity(); err != nil {
		return Info{}, Seats{}, err
	}

	id := uuid.NewString()
	var (
		g   *game.Game
		err error
	)
	if opts.State != nil {
		g, err = game.NewGameFromState(*opts.State, m.logger)
		if err != nil {
			return Info{}, Seats{}, fmt.Errorf("custom position: %w", err)
		}
	} else {
		g = game.NewGame(m.logger)
	}

	s, err := m.newSession(id, g, m.now())
	if err != nil {
		return Info{}, Seats{}, err
	}
	s.custom = opts.State != nil

	seats, err := m.issueSeats(id)
	if err != nil {
		return Info{}, Seats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventBus.Publish(events.NewGameCreatedEvent(id, g.Turn().String(), s.custom))
	s.refreshStatusLocked()
	if err := m.insert(s); err != nil {
		return Info{}, Seats{}, err
	}
	m.persistLocked(ctx, s)

	m.logger.Info().
		Str("game_id", id).
		Bool("custom", s.custom).
		Msg("Created game")
	return s.infoLocked(), seats, nil
}

// Restore brings a persisted game back into memory.
func (m *Manager) Restore(ctx context.Context, gameID string) (Info, Seats, error) {
	if m.store == nil {
		return Info{}, Seats{}, fmt.Errorf("restore %s: no store configured", gameID)
	}
	if _, err := m.session(gameID); err == nil {
		return Info{}, Seats{}, ErrGameExists
	}
	if err := m.checkCapacity(); err != nil {
		return Info{}, Seats{}, err
	}

	snap, err := m.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return Info{}, Seats{}, ErrGameNotFound
	}
	if err != nil {
		return Info{}, Seats{}, err
	}
	gs, err := snap.State()
	if err != nil {
		return Info{}, Seats{}, fmt.Errorf("restore %s: %w", gameID, err)
	}
	g, err := game.NewGameFromState(gs, m.logger)
	if err != nil {
		return Info{}, Seats{}, fmt.Errorf("restore %s: %w", gameID, err)
	}

	s, err := m.newSession(gameID, g, snap.CreatedAt)
	if err != nil {
		return Info{}, Seats{}, err
	}
	s.custom = true
	s.plies = snap.Plies

	seats, err := m.issueSeats(gameID)
	if err != nil {
		return Info{}, Seats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Phase == states.PhaseEnded.String() {
		if err := s.stateMachine.End(snap.Winner, "restored finished game"); err != nil {
			return Info{}, Seats{}, fmt.Errorf("restore %s: %w", gameID, err)
		}
	}
	s.refreshStatusLocked()
	if err := m.insert(s); err != nil {
		return Info{}, Seats{}, err
	}

	m.logger.Info().
		Str("game_id", gameID).
		Int("plies", s.plies).
		Str("phase", s.stateMachine.CurrentPhase().String()).
		Msg("Restored game")
	return s.infoLocked(), seats, nil
}

func (m *Manager) newSession(id string, g *game.Game, createdAt time.Time) (*gameSession, error) {
	if createdAt.IsZero() {
		createdAt = m.now()
	}
	bus := events.NewEventBus(m.logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("event_logger", m.logger, zerolog.DebugLevel))

	machine := states.NewStateMachine(states.NewGameContext(id, m.logger), bus)
	s := &gameSession{
		id:           id,
		game:         g,
		stateMachine: machine,
		eventBus:     bus,
		idempotency:  NewIdempotencyManager(),
		createdAt:    createdAt,
		lastActivity: m.now(),
		done:         make(chan struct{}),
	}
	if err := machine.TransitionTo(states.PhaseRunning, "Position ready"); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	return s, nil
}

func (m *Manager) issueSeats(id string) (Seats, error) {
	if m.seats == nil {
		return Seats{}, nil
	}
	white, err := m.seats.Issue(id, core.White)
	if err != nil {
		return Seats{}, err
	}
	black, err := m.seats.Issue(id, core.Black)
	if err != nil {
		return Seats{}, err
	}
	return Seats{White: white, Black: black}, nil
}

func (m *Manager) checkCapacity() error {
	m.mu.RLock()
	current := len(m.games)
	m.mu.RUnlock()

	if m.cfg.MaxGames > 0 && current >= m.cfg.MaxGames {
		m.logger.Warn().
			Int("current_games", current).
			Int("max_games", m.cfg.MaxGames).
			Msg("Rejecting game creation - server at capacity")
		return fmt.Errorf("%w: %d/%d games active", ErrAtCapacity, current, m.cfg.MaxGames)
	}
	return nil
}

func (m *Manager) insert(s *gameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[s.id]; exists {
		return ErrGameExists
	}
	if m.cfg.MaxGames > 0 && len(m.games) >= m.cfg.MaxGames {
		return fmt.Errorf("%w: %d/%d games active", ErrAtCapacity, len(m.games), m.cfg.MaxGames)
	}
	m.games[s.id] = s
	return nil
}

func (m *Manager) session(gameID string) (*gameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Get returns a view of one game.
func (m *Manager) Get(gameID string) (Info, error) {
	s, err := m.session(gameID)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked(), nil
}

// List returns every hosted game ordered by id.
func (m *Manager) List() []Info {
	m.mu.RLock()
	ids := maps.Keys(m.games)
	sessions := make(map[string]*gameSession, len(m.games))
	maps.Copy(sessions, m.games)
	m.mu.RUnlock()

	slices.Sort(ids)
	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		s := sessions[id]
		s.mu.Lock()
		infos = append(infos, s.infoLocked())
		s.mu.Unlock()
	}
	return infos
}

// Count returns the number of hosted games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// LegalMoves returns the destinations Move would accept from sq.
func (m *Manager) LegalMoves(gameID string, sq int) (core.MoveList, error) {
	s, err := m.session(gameID)
	if err != nil {
		return core.MoveList{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(sq), nil
}

// Move applies a move for the seat holder. A request id makes retries safe:
// the first outcome for (team, id) is replayed.
func (m *Manager) Move(ctx context.Context, req MoveRequest) (game.MoveResult, error) {
	s, err := m.session(req.GameID)
	if err != nil {
		return game.MoveResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	team, err := m.authorizeLocked(s, req.SeatToken, req.From)
	if err != nil {
		return game.MoveResult{}, err
	}
	key := requestKey("move", req.RequestID)
	if cached, ok := s.idempotency.Check(team, key); ok {
		return cached.Result, cached.Err
	}
	if phase := s.stateMachine.CurrentPhase(); !phase.CanReceiveMoves() {
		return game.MoveResult{}, fmt.Errorf("%w: game is %s", ErrNotRunning, phase)
	}

	mover := s.game.Turn()
	result, err := s.game.Move(req.From, req.To)
	s.lastActivity = m.now()
	if err != nil {
		s.eventBus.Publish(events.NewMoveRejectedEvent(s.id, mover.String(), req.From, req.To, err.Error()))
		s.idempotency.Store(team, key, Outcome{Err: err})
		return game.MoveResult{}, err
	}

	s.plies++
	m.publishMoveLocked(s, result)
	s.refreshStatusLocked()
	m.persistLocked(ctx, s)
	s.idempotency.Store(team, key, Outcome{Result: result})
	return result, nil
}

func (m *Manager) publishMoveLocked(s *gameSession, r game.MoveResult) {
	team := r.Piece.Team()
	ev := events.MoveCommittedEvent{
		Team:       team.String(),
		Piece:      r.Piece.Type().String(),
		From:       r.From.String(),
		To:         r.To.String(),
		Castled:    r.Castled,
		Promotable: r.Promotable,
		Ply:        s.plies,
		NextTurn:   s.game.Turn().String(),
	}
	if sq, ok := r.Captured.Get(); ok {
		ev.Captured = sq.String()
		ev.CapturedPiece = r.CapturedPiece.Type().String()
	}
	s.eventBus.Publish(events.NewMoveCommittedEvent(s.id, ev))

	if r.Castled {
		king := s.game.State().Kings[team]
		rook := r.From
		if rook == king {
			rook = r.To
		}
		s.eventBus.Publish(events.NewCastleCommittedEvent(s.id, team.String(), king.String(), rook.String()))
	}
}

// Promote replaces a pawn on its far rank. It does not pass the turn.
func (m *Manager) Promote(ctx context.Context, req PromoteRequest) error {
	s, err := m.session(req.GameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	team, err := m.authorizeLocked(s, req.SeatToken, req.Square)
	if err != nil {
		return err
	}
	key := requestKey("promote", req.RequestID)
	if cached, ok := s.idempotency.Check(team, key); ok {
		return cached.Err
	}
	if phase := s.stateMachine.CurrentPhase(); !phase.CanReceiveMoves() {
		return fmt.Errorf("%w: game is %s", ErrNotRunning, phase)
	}

	cell, _ := s.game.PieceAt(req.Square)
	err = s.game.Promote(req.Square, req.Type)
	s.lastActivity = m.now()
	s.idempotency.Store(team, key, Outcome{Err: err})
	if err != nil {
		return err
	}

	pawn, _ := cell.Piece()
	sq := core.Square(req.Square)
	s.eventBus.Publish(events.NewPawnPromotedEvent(s.id, pawn.Team().String(), sq.String(), req.Type.String()))
	s.refreshStatusLocked()
	m.persistLocked(ctx, s)
	return nil
}

// authorizeLocked checks the seat token against the game and the piece on
// sq. It returns the seat's team, or -1 when seats are disabled.
func (m *Manager) authorizeLocked(s *gameSession, token string, sq int) (int, error) {
	if m.seats == nil {
		return -1, nil
	}
	seat, err := m.seats.Verify(token)
	if err != nil {
		return -1, err
	}
	if seat.GameID != s.id {
		return -1, fmt.Errorf("%w: token is for game %s", ErrWrongSeat, seat.GameID)
	}
	if cell, err := s.game.PieceAt(sq); err == nil {
		if p, ok := cell.Piece(); ok && p.Team() != seat.Team {
			return -1, fmt.Errorf("%w: %s seat cannot move %s", ErrWrongSeat, seat.Team, p)
		}
	}
	return int(seat.Team), nil
}

func requestKey(op, id string) string {
	if id == "" {
		return ""
	}
	return op + ":" + id
}

// Snapshot returns the persisted form of a hosted game.
func (m *Manager) Snapshot(gameID string) (store.Snapshot, error) {
	s, err := m.session(gameID)
	if err != nil {
		return store.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// persistLocked saves the game. Failures are logged: the move is already
// committed in memory.
func (m *Manager) persistLocked(ctx context.Context, s *gameSession) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, s.snapshotLocked()); err != nil {
		m.logger.Error().Err(err).Str("game_id", s.id).Msg("Failed to persist game")
	}
}

// Remove drops a game from memory and from the store and closes its watchers.
func (m *Manager) Remove(ctx context.Context, gameID string) error {
	m.mu.Lock()
	s, ok := m.games[gameID]
	delete(m.games, gameID)
	m.mu.Unlock()

	if !ok {
		return ErrGameNotFound
	}
	s.close()
	if m.store != nil {
		if err := m.store.Delete(ctx, gameID); err != nil {
			return fmt.Errorf("remove %s: %w", gameID, err)
		}
	}
	m.logger.Info().Str("game_id", gameID).Msg("Removed game")
	return nil
}

// Watch subscribes handler to every event of a game. Handlers run while the
// game is locked and must not call back into the manager for the same game.
// done is closed when the game is removed; cancel ends the subscription.
func (m *Manager) Watch(gameID string, handler events.EventHandler) (cancel func(), done <-chan struct{}, err error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, nil, err
	}
	w := newWatcher(handler)
	s.eventBus.Subscribe(w)
	return func() { s.eventBus.Unsubscribe(w.id) }, s.done, nil
}
