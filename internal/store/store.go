package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no snapshot exists for a game id.
var ErrNotFound = errors.New("snapshot not found")

// Store persists game snapshots keyed by game id.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, gameID string) (Snapshot, error)
	Delete(ctx context.Context, gameID string) error
	Close(ctx context.Context) error
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.GameID] = snap.clone()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, gameID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[gameID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap.clone(), nil
}

// Delete removes a snapshot. Deleting an unknown id is not an error.
func (m *MemoryStore) Delete(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, gameID)
	return nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snaps)
}

func (m *MemoryStore) Close(context.Context) error { return nil }

// clone deep-copies the slice fields so stored snapshots never alias caller memory.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Board = cloneOpts(s.Board)
	out.Kings = append([]int(nil), s.Kings...)
	out.CastleForfeited = append([]bool(nil), s.CastleForfeited...)
	out.EnPassant = cloneOpts(s.EnPassant)
	return out
}

func cloneOpts(in []*int) []*int {
	if in == nil {
		return nil
	}
	out := make([]*int, len(in))
	for i, v := range in {
		out[i] = cloneInt(v)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
