package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a key-value store with a fixed TTL per entry. Expiry is lazy:
// stale entries are dropped when read, there is no background sweeper.
type Store[V any] struct {
	ttl     time.Duration
	mutex   sync.RWMutex
	entries map[string]entry[V]
}

func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

func (store *Store[V]) Set(key string, value V) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(store.ttl),
	}
}

func (store *Store[V]) Get(key string) (V, bool) {
	store.mutex.RLock()
	e, exists := store.entries[key]
	store.mutex.RUnlock()

	if !exists {
		var zero V
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		store.Delete(key)
		var zero V
		return zero, false
	}

	return e.value, true
}

func (store *Store[V]) Delete(key string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.entries, key)
}

// Clear drops every entry. This is the external invalidation signal, the
// store never invalidates on writes to the underlying data.
func (store *Store[V]) Clear() {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.entries = make(map[string]entry[V])
}
