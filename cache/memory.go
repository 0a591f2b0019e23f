package cache

import (
	"context"
	"sync"
)

// Memory is an in-process cache backed by a mutex-guarded map.
// The zero value is not usable; construct with NewMemory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]bool
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]bool)}
}

// IsValid implements Cache.
func (m *Memory) IsValid(_ context.Context, href string) (bool, bool) {
	m.mu.RLock()
	valid, known := m.entries[href]
	m.mu.RUnlock()
	return valid, known
}

// MarkValid implements Recorder.
func (m *Memory) MarkValid(_ context.Context, href string) {
	m.mu.Lock()
	m.entries[href] = true
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// hrefs returns the cached hrefs that are marked valid.
func (m *Memory) hrefs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.entries))
	for href, valid := range m.entries {
		if valid {
			out = append(out, href)
		}
	}
	return out
}

// Verify interface compliance.
var (
	_ Cache    = (*Memory)(nil)
	_ Recorder = (*Memory)(nil)
)
