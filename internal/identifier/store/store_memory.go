package store

import (
	"context"
	"slices"
	"sync"

	"formgate/pkg/platform/sentinel"
)

// InMemory keeps the persisted sequence in process. It backs the memory
// registry backend and registry tests.
type InMemory struct {
	mu    sync.Mutex
	ids   []string
	saved bool
	err   error
	saves int
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// NewInMemoryWith returns a store that already holds ids.
func NewInMemoryWith(ids ...string) *InMemory {
	return &InMemory{ids: slices.Clone(ids), saved: true}
}

func (s *InMemory) Load(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(s.ids), nil
}

func (s *InMemory) Save(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.ids = slices.Clone(ids)
	s.saved = true
	s.saves++
	return nil
}

// FailWith makes subsequent saves return err. Pass nil to recover.
func (s *InMemory) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Saves returns the number of successful saves.
func (s *InMemory) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Snapshot returns the last saved sequence.
func (s *InMemory) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}
