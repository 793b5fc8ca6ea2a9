package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/cellspan/pkg/design"
)

// MemoryStore keeps designs in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	designs map[string]*design.Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{designs: make(map[string]*design.Document)}
}

// Get implements [Store].
func (s *MemoryStore) Get(ctx context.Context, id string) (*design.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.designs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return d.Clone(), nil
}

// Put implements [Store].
func (s *MemoryStore) Put(ctx context.Context, d *design.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(d.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs[d.ID] = d.Clone()
	return nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designs[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.designs, id)
	return nil
}

// List implements [Store].
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Summary, 0, len(s.designs))
	for _, d := range s.designs {
		out = append(out, Summarize(d))
	}
	s.mu.RUnlock()
	sortSummaries(out)
	return out, nil
}

// Close implements [Store].
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
