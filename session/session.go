// Package session provides SessionStore implementations.
//
// Memory is for single-process use and tests, File persists the pair the way
// the browser storefront persists it in localStorage, and Redis lets several
// processes share one session.
package session

import (
	"context"
	"sync"

	olleh "github.com/olleh-rw/olleh-go"
)

// Memory is an in-process SessionStore.
type Memory struct {
	mu   sync.RWMutex
	pair *olleh.TokenPair
}

var _ olleh.SessionStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored token pair, or nil when logged out.
func (m *Memory) Get(ctx context.Context) (*olleh.TokenPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pair == nil {
		return nil, nil
	}
	pair := *m.pair
	return &pair, nil
}

// Set replaces the stored token pair.
func (m *Memory) Set(ctx context.Context, pair olleh.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = &pair
	return nil
}

// Clear removes the session.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = nil
	return nil
}
