package ledger

import "sync"

type accountLock struct {
	sync.Mutex
	refs int
}

// accountLocks serialises mutations of one account within the process
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: map[string]*accountLock{}}
}

// lock blocks until the account is free and returns the unlock func
func (l *accountLocks) lock(accountID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &accountLock{}
		l.locks[accountID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, accountID)
		}
		l.mu.Unlock()
	}
}

func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
