// Package memory provides an in-memory KV store for tests and ephemeral
// simulations.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/louisbranch/valuechain/internal/storage"
)

// Store is an in-memory storage.KV. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	kv    map[string][]byte
	sets  map[string][]string
	lists map[string][]string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		kv:    make(map[string][]byte),
		sets:  make(map[string][]string),
		lists: make(map[string][]string),
	}
}

// Get decodes the value at key into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	payload, ok := s.kv[key]
	s.mu.RUnlock()
	if !ok {
		return storage.ErrNotFound
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}

// Set stores value at key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	s.mu.Lock()
	s.kv[key] = payload
	s.mu.Unlock()
	return nil
}

// SAdd adds member to the set at key.
func (s *Store) SAdd(ctx context.Context, key, member string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.sets[key], member) {
		s.sets[key] = append(s.sets[key], member)
	}
	return nil
}

// SMembers returns the members of the set at key in insertion order.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sets[key]), nil
}

// RPush appends member to the list at key.
func (s *Store) RPush(ctx context.Context, key, member string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.lists[key] = append(s.lists[key], member)
	s.mu.Unlock()
	return nil
}

// LRange returns list members from start through stop inclusive.
func (s *Store) LRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[key]
	from, to, ok := storage.ResolveRange(len(list), start, stop)
	if !ok {
		return nil, nil
	}
	return slices.Clone(list[from:to]), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
