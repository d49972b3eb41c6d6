package engine

import "sync"

type lockKey struct {
	staffID int
	workDay string
}

// keyLock serializes work per (staff, day) pair. Entries are reference
// counted and removed once the last holder releases, so the map does not
// grow with history.
type keyLock struct {
	mu    sync.Mutex
	locks map[lockKey]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[lockKey]*lockEntry)}
}

func (k *keyLock) lock(key lockKey) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *keyLock) unlock(key lockKey) {
	k.mu.Lock()
	e := k.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
