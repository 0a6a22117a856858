package cache

import (
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// MemoryStore keeps OAuth state tokens in process memory. It is the
// single-node fallback when Redis is not configured; entries expire like
// their Redis counterparts and reads past the deadline delete eagerly so a
// node that never sweeps still cannot replay a stale token.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	stop    chan struct{}
	once    sync.Once

	now func() time.Time // injectable for tests
}

type entry struct {
	value    string
	deadline time.Time
}

// NewMemoryStore creates a memory store and starts its sweep goroutine
func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go ms.sweep()
	return ms
}

// Set stores a value that expires after the given duration
func (ms *MemoryStore) Set(key string, value string, expiration time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[key] = entry{value: value, deadline: ms.now().Add(expiration)}
}

// Get returns the live value for a key. An expired entry is removed on read.
func (ms *MemoryStore) Get(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.entries[key]
	if !ok {
		return "", false
	}
	if ms.now().After(e.deadline) {
		delete(ms.entries, key)
		return "", false
	}
	return e.value, true
}

// Take returns the live value for a key and removes it in the same step, so
// two concurrent readers cannot both consume a one-time token.
func (ms *MemoryStore) Take(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.entries[key]
	if !ok {
		return "", false
	}
	delete(ms.entries, key)
	if ms.now().After(e.deadline) {
		return "", false
	}
	return e.value, true
}

// Delete removes a key
func (ms *MemoryStore) Delete(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
}

// Close stops the sweep goroutine. Safe to call more than once.
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// sweep drops expired entries so abandoned OAuth flows do not pile up.
func (ms *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, e := range ms.entries {
				if now.After(e.deadline) {
					delete(ms.entries, key)
				}
			}
			ms.mu.Unlock()
		case <-ms.stop:
			return
		}
	}
}
