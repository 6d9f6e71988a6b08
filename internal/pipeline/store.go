package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
)

// Store holds the snapshot currently being served. Readers always observe a
// complete snapshot; a newer one replaces it in a single swap.
type Store struct {
	current atomic.Pointer[domain.Snapshot]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the served snapshot, or false before the first load.
func (s *Store) Current() (domain.Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Snapshot{}, false
	}
	return *snap, true
}

// LoadSnapshot replaces the served snapshot.
func (s *Store) LoadSnapshot(_ context.Context, snap domain.Snapshot) error {
	s.current.Store(&snap)
	return nil
}

// CheckReadiness returns nil once a snapshot has been loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return errors.New("no snapshot loaded yet")
	}
	return nil
}
