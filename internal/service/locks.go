package service

import (
	"sync"

	"connect-four/internal/domain"
)

type pairKey [2]domain.ParticipantID

func keyFor(a, b domain.ParticipantID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

// pairLocks serializes work per unordered participant pair. Entries are
// dropped once nobody holds or waits on them.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*pairLock
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[pairKey]*pairLock)}
}

func (l *pairLocks) lock(a, b domain.ParticipantID) (unlock func()) {
	key := keyFor(a, b)

	l.mu.Lock()
	pl, ok := l.locks[key]
	if !ok {
		pl = &pairLock{}
		l.locks[key] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *pairLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
