package session

import (
	"context"
	"time"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/states"
)

// RunCleanup removes finished and abandoned games every CleanupInterval
// until ctx is cancelled.
func (m *Manager) RunCleanup(ctx context.Context) {
	interval := m.cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultConfig().CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.safeCleanup(ctx)
		}
	}
}

func (m *Manager) safeCleanup(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Interface("panic", r).
				Msg("Game cleanup panicked")
		}
	}()
	m.CleanupGames(ctx)
}

// CleanupGames removes finished games older than FinishedTTL from memory and
// the store, and abandoned games idle for IdleTimeout from memory only, so
// they can still be restored. It returns the number of games removed.
func (m *Manager) CleanupGames(ctx context.Context) int {
	// Phase 1: collect references without holding the manager lock while
	// taking game locks
	m.mu.RLock()
	sessions := make([]*gameSession, 0, len(m.games))
	for _, s := range m.games {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	// Phase 2: check each game independently
	now := m.now()
	type victim struct {
		s        *gameSession
		finished bool
	}
	var toDelete []victim

	for _, s := range sessions {
		s.mu.Lock()
		phase := s.stateMachine.CurrentPhase()
		inactive := now.Sub(s.lastActivity)
		age := now.Sub(s.createdAt)
		s.mu.Unlock()

		reason := ""
		finished := phase == states.PhaseEnded || phase == states.PhaseError
		switch {
		case finished && m.cfg.FinishedTTL > 0 && inactive > m.cfg.FinishedTTL:
			reason = "finished game TTL expired"
		case !finished && m.cfg.IdleTimeout > 0 && inactive > m.cfg.IdleTimeout:
			reason = "game abandoned (no activity)"
		default:
			continue
		}

		toDelete = append(toDelete, victim{s: s, finished: finished})
		m.logger.Info().
			Str("game_id", s.id).
			Str("reason", reason).
			Dur("age", age).
			Dur("inactive", inactive).
			Msg("Cleaning up game")
	}

	if len(toDelete) == 0 {
		return 0
	}

	// Phase 3: remove with a single manager lock, then release resources
	m.mu.Lock()
	removed := toDelete[:0]
	for _, v := range toDelete {
		if m.games[v.s.id] == v.s {
			delete(m.games, v.s.id)
			removed = append(removed, v)
		}
	}
	remaining := len(m.games)
	m.mu.Unlock()

	for _, v := range removed {
		v.s.close()
		if v.finished && m.store != nil {
			if err := m.store.Delete(ctx, v.s.id); err != nil {
				m.logger.Error().Err(err).Str("game_id", v.s.id).Msg("Failed to delete finished game")
			}
		}
	}

	m.logger.Info().
		Int("cleaned", len(removed)).
		Int("remaining", remaining).
		Msg("Game cleanup completed")
	return len(removed)
}
