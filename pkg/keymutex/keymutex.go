// Package keymutex provides a mutex per key so operations on the same key
// are serialized while unrelated keys never contend.
package keymutex

import (
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex is a lock table keyed by uint. The zero value is not usable;
// call New.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

// New creates an empty lock table
func New() *KeyMutex {
	return &KeyMutex{entries: make(map[uint]*entry)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
// Entries are reference counted and removed when no goroutine holds or
// waits on them, so the table does not grow with the keyspace.
func (k *KeyMutex) Lock(key uint) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
