package game

import "sync"

// keyedMutex serializes mutating operations per game id so concurrent
// handlers cannot both pass the same precondition read; unrelated games
// proceed in parallel. Entries are never evicted: one mutex per live
// game id is small, and DeleteGame releases nothing a later create
// could not reuse.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*sync.Mutex{}}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}
