package cache

import (
	"context"
	"sync"
)

// InMemorySnapshotLocker implements revenue.SnapshotLocker inside one process.
// It does not coordinate across instances.
type InMemorySnapshotLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch      chan struct{}
	waiters int
}

// NewInMemorySnapshotLocker creates an empty locker
func NewInMemorySnapshotLocker() *InMemorySnapshotLocker {
	return &InMemorySnapshotLocker{slots: make(map[string]*lockSlot)}
}

// Acquire waits for the slot of key or returns ctx.Err().
func (l *InMemorySnapshotLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.waiters++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.leave(key, slot)
		})
	}, nil
}

func (l *InMemorySnapshotLocker) leave(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.waiters--
	if slot.waiters == 0 {
		delete(l.slots, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (l *InMemorySnapshotLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
