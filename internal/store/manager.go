package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Manager hands out one Store per client key, rehydrating the snapshot on
// first touch. Keys are user ids for authenticated clients and guest cookie
// ids otherwise.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	logger    *slog.Logger
}

func NewManager(p Persister, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		stores:    make(map[string]*Store),
		persister: p,
		logger:    logger,
	}
}

func (m *Manager) ForClient(ctx context.Context, key string) *Store {
	m.mu.Lock()
	if s, ok := m.stores[key]; ok {
		m.mu.Unlock()
		return s
	}
	s := New(key, m.persister, m.logger)
	m.stores[key] = s
	m.mu.Unlock()

	if m.persister != nil {
		data, err := m.persister.Load(ctx, key)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			m.logger.Error("store snapshot load failed", "key", key, "error", err)
		default:
			snap, err := DecodeSnapshot(data)
			if err != nil {
				// Corrupt or out-of-version snapshot: start fresh.
				m.logger.Warn("discarding stale store snapshot", "key", key, "error", err)
			} else {
				s.Restore(snap)
			}
		}
	}
	return s
}

// Drop forgets the in-memory store for a key, forcing a reload next time.
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	delete(m.stores, key)
	m.mu.Unlock()
}
