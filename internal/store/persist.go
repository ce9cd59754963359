package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion marks the snapshot wire shape. A persisted snapshot with a
// different version is discarded on load instead of being half-parsed.
const SchemaVersion = 1

var ErrNotFound = errors.New("snapshot not found")

// Persister stores the serialized snapshot under a client key.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Snapshot is the persisted subset of the store state. UI-only fields such
// as the auth modal view are deliberately absent.
type Snapshot struct {
	SchemaVersion  int        `json:"schemaVersion"`
	Session        Session    `json:"session"`
	Cart           []CartLine `json:"cart"`
	Favorites      []int      `json:"favorites"`
	Comparison     []int      `json:"comparison"`
	RecentlyViewed []int      `json:"recentlyViewed"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SchemaVersion:  SchemaVersion,
		Session:        s.session,
		Cart:           append([]CartLine(nil), s.cart...),
		Favorites:      append([]int(nil), s.favorites...),
		Comparison:     append([]int(nil), s.comparison...),
		RecentlyViewed: append([]int(nil), s.recentlyViewed...),
	}
}

func (snap Snapshot) Encode() ([]byte, error) {
	return json.Marshal(snap)
}

func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported snapshot schema version %d", snap.SchemaVersion)
	}
	return &snap, nil
}

// Restore replaces the live state with the snapshot contents.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = snap.Session
	s.cart = append([]CartLine(nil), snap.Cart...)
	s.favorites = append([]int(nil), snap.Favorites...)
	s.comparison = append([]int(nil), snap.Comparison...)
	s.recentlyViewed = append([]int(nil), snap.RecentlyViewed...)
}
