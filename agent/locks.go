package agent

import "sync"

// userLocks serializes turns per user ID so the read-merge-write sequence of
// one turn cannot interleave with another turn for the same user. Turns for
// distinct users proceed independently.
type userLocks struct {
	mu    sync.Mutex
	entry map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entry: make(map[string]*lockEntry)}
}

// lock acquires the lock for userID and returns the matching unlock func.
// Entries are reference counted so the map does not grow with user count.
func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entry[userID]
	if !ok {
		e = &lockEntry{}
		l.entry[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entry, userID)
		}
		l.mu.Unlock()
	}
}
