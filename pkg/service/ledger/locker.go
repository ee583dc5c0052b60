package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker serializes work per account within this process. Operations on
// different accounts never wait on each other. Storage-level version checks
// cover writers in other processes.
type Locker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{slots: make(map[uuid.UUID]*slot)}
}

// Lock blocks until the account is free or ctx is done. The returned func
// releases the lock and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[id]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[id] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			l.release(id, s)
		}, nil
	case <-ctx.Done():
		l.release(id, s)
		return nil, ctx.Err()
	}
}

func (l *Locker) release(id uuid.UUID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, id)
	}
}

// Held returns the number of accounts with a holder or waiter. Used by tests.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
