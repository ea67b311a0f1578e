package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
)

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter is an in-process CacheProvider used when Redis is not
// configured or unreachable. Sessions and rate-limit counters keep working
// on a single node; they just don't survive restarts.
type MemoryAdapter struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryAdapter creates a new in-memory cache adapter.
func NewMemoryAdapter() *MemoryAdapter {
	m := &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go m.reap()
	return m
}

// Get retrieves a value from cache
func (m *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || entry.expired() {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (m *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	var expiresAt time.Time
	if expirationSeconds > 0 {
		expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (m *MemoryAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (m *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	return ok && !entry.expired(), nil
}

// CountByPrefix counts live keys under a prefix
func (m *MemoryAdapter) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key, entry := range m.entries {
		if strings.HasPrefix(key, prefix) && !entry.expired() {
			count++
		}
	}
	return count, nil
}

// Increment atomically bumps a counter under the adapter's lock.
func (m *MemoryAdapter) Increment(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.expired() {
		expiresAt := time.Time{}
		if expirationSeconds > 0 {
			expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
		}
		m.entries[key] = memoryEntry{value: []byte("1"), expiresAt: expiresAt}
		return 1, nil
	}

	count, err := strconv.ParseInt(string(entry.value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s holds a non-numeric value", key)
	}
	count++
	entry.value = []byte(strconv.FormatInt(count, 10))
	m.entries[key] = entry
	return count, nil
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// Close stops the background reaper. Safe to call more than once.
func (m *MemoryAdapter) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

// reap evicts expired entries once a minute so long-lived processes don't
// accumulate dead sessions.
func (m *MemoryAdapter) reap() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			for key, entry := range m.entries {
				if entry.expired() {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
