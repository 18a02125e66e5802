// Package session maps browser sessions to their in-memory stores. Nothing
// here is durable: an expired or restarted session starts with a fresh store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banjul-labs/storefront/internal/store"
)

type entry struct {
	store    *store.Store
	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	newStore func() *store.Store
	now      func() time.Time
}

func NewManager(ttl time.Duration, newStore func() *store.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		newStore: newStore,
		now:      time.Now,
	}
}

// Get returns the store for an existing, unexpired session and refreshes its
// idle timer.
func (m *Manager) Get(id string) (*store.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	e.lastSeen = m.now()
	return e.store, true
}

// Create starts a new session and returns its id and store.
func (m *Manager) Create() (string, *store.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	st := m.newStore()
	m.sessions[id] = &entry{store: st, lastSeen: m.now()}
	return id, st
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run evicts idle sessions until the context is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *Manager) evictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	cutoff := m.now().Add(-m.ttl)
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}
