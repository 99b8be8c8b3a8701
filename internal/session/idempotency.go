package session

import (
	"sync"
	"time"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game"
)

const (
	idempotencyTTL      = 24 * time.Hour
	idempotencyMaxCache = 1000
)

// idempotencyKey represents a composite key for idempotent requests
type idempotencyKey struct {
	Team           int
	IdempotencyKey string
}

// Outcome is the cached answer to a move or promotion request.
type Outcome struct {
	Result game.MoveResult
	Err    error
}

type idempotencyEntry struct {
	outcome   Outcome
	createdAt time.Time
}

// IdempotencyManager handles idempotent request caching
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	mu    sync.RWMutex
	now   func() time.Time
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		now:   time.Now,
	}
}

// Check returns the cached outcome if the key exists for the given team
func (im *IdempotencyManager) Check(team int, key string) (Outcome, bool) {
	if key == "" {
		return Outcome{}, false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Team: team, IdempotencyKey: key}]
	if !exists {
		return Outcome{}, false
	}
	if im.now().Sub(entry.createdAt) > idempotencyTTL {
		return Outcome{}, false
	}
	return entry.outcome, true
}

// Store caches an outcome for the given team and key
func (im *IdempotencyManager) Store(team int, key string, outcome Outcome) {
	if key == "" {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Team: team, IdempotencyKey: key}] = &idempotencyEntry{
		outcome:   outcome,
		createdAt: im.now(),
	}

	if len(im.cache) > idempotencyMaxCache {
		im.cleanupOldEntriesLocked()
	}
}

// Len returns the number of cached entries.
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes old entries from the cache
// Must be called with mu held
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-idempotencyTTL)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
