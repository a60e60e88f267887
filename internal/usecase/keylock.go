package usecase

import "sync"

// keyedMutex serializes work per string key. It is the advisory lock around
// identity creation: the store has no conditional writes, so two concurrent
// intake events for the same new identity could otherwise both find "no
// match" and create twice. The lock only covers this process; separate
// instances can still race (documented on CreateMemberUseCase).
type keyedMutex struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	wait sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{held: map[string]*keyLock{}}
}

// Lock blocks until the key is free and returns the unlock func.
func (m *keyedMutex) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.held[key]
	if !ok {
		l = &keyLock{}
		m.held[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.wait.Lock()
	return func() {
		l.wait.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.held, key)
		}
		m.mu.Unlock()
	}
}
