package collectionutils

import "sync"

type SafeMap[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
}

func NewSafeMap[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		data: make(map[K]V),
	}
}

func (safeMap *SafeMap[K, V]) Store(newKey K, newValue V) {
	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()
	safeMap.data[newKey] = newValue
}

func (safeMap *SafeMap[K, V]) Get(key K) (V, bool) {
	safeMap.mutex.RLock()
	defer safeMap.mutex.RUnlock()
	value, exists := safeMap.data[key]

	return value, exists
}

func (safeMap *SafeMap[K, V]) Delete(key K) {
	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()
	delete(safeMap.data, key)
}
