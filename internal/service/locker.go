package service

import (
	"context"
	"sync"
)

// AccountLocker serializes reconciliation runs of the same account. Lock blocks until
// the lock is held or ctx is done and returns the release function.
type AccountLocker interface {
	Lock(ctx context.Context, accountID string) (release func(), err error)
}

// LocalLocker is an AccountLocker for a single process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, accountID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[accountID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[accountID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}
