// Package memstore is an in-memory slot backend. Values live only as long
// as the process.
package memstore

import (
	"context"
	"sync"
)

type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

func New() *Store {
	return &Store{m: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Store) Close() error { return nil }
