package app

import "sync"

// candidateLocks serializes submissions per candidate id while letting
// different candidates proceed in parallel.
type candidateLocks struct {
	mu    sync.Mutex
	locks map[string]*candidateLock
}

type candidateLock struct {
	mu   sync.Mutex
	refs int
}

func newCandidateLocks() *candidateLocks {
	return &candidateLocks{locks: make(map[string]*candidateLock)}
}

// lock blocks until id is free and returns the matching unlock function.
func (l *candidateLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &candidateLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
