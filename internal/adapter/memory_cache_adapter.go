package adapter

import (
	"context"
	"sync"
	"time"

	"speakscore/internal/domain"
)

// sweepInterval is the minimum time between expiry sweeps triggered by Set.
const sweepInterval = time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCacheAdapter is an in-process domain.Cache used when Redis is not configured.
// State is lost on restart and is not shared between replicas.
type MemoryCacheAdapter struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryCacheAdapter creates an empty in-memory cache.
func NewMemoryCacheAdapter() domain.Cache {
	return &MemoryCacheAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if entry.expired(m.now()) {
		delete(m.entries, key)
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = now.Add(expiration)
	}
	m.entries[key] = entry
	return nil
}

// sweep drops expired entries. Callers hold m.mu.
func (m *MemoryCacheAdapter) sweep(now time.Time) {
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
		}
	}
	m.lastSweep = now
}

func (m *MemoryCacheAdapter) GetDel(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	delete(m.entries, key)
	if entry.expired(m.now()) {
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCacheAdapter) DeleteIfEqual(_ context.Context, key, expected string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok || entry.expired(m.now()) || entry.value != expected {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(context.Context) error {
	return nil
}
