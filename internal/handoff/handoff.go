// Package handoff carries the uploaded syllabus path from the planning page
// to the quiz page, keyed per client.
package handoff

import (
	"context"
	"errors"
	"sync"
)

// Key is the entry name the planning flow writes and the quiz flow reads.
const Key = "currentSyllabusPath"

// ErrNotFound means the client has no stored path; the quiz then requests a
// fallback quiz with a null file path.
var ErrNotFound = errors.New("no syllabus path stored")

type Store interface {
	Get(ctx context.Context, clientID string) (string, error)
	Set(ctx context.Context, clientID, path string) error
}

// Lookup returns the stored path or nil when there is none. Other errors are
// returned so the caller can decide whether to fall back.
func Lookup(ctx context.Context, s Store, clientID string) (*string, error) {
	p, err := s.Get(ctx, clientID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type MemoryStore struct {
	mu    sync.RWMutex
	paths map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, clientID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paths[clientID]
	if !ok {
		return "", ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) Set(_ context.Context, clientID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[clientID] = path
	return nil
}
