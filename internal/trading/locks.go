package trading

import (
	"sync"
)

// userLocks hands out one mutex per user so that trades for the same
// user run one at a time while different users never wait on each other.
type userLocks struct {
	locks map[int64]*sync.Mutex // user_id → mutex
	mu    sync.Mutex            // protects the map itself
}

func newUserLocks() *userLocks {
	return &userLocks{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock blocks until userID's mutex is held and returns its unlock func.
func (l *userLocks) Lock(userID int64) func() {
	l.mu.Lock()
	m := l.locks[userID]
	if m == nil {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
