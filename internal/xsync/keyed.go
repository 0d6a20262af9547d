// Package xsync provides the small concurrency primitives shared by the
// services and the session controller.
package xsync

import (
	"context"
	"sync"
)

// KeyedMutex is a set of exclusive locks addressed by key. Callers holding
// different keys never block each other. Callers waiting on the same key are
// granted the lock in arrival order. Unused keys are dropped, so the map only
// grows with the number of keys currently held or awaited.
//
// The zero value is ready to use.
type KeyedMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*keyLock
}

type keyLock struct {
	// sem has capacity 1: holding the lock means owning its only slot.
	// Blocked senders on a channel are woken FIFO, which gives queue order.
	sem  chan struct{}
	refs int
}

// Lock acquires the lock for key, waiting until it is free or ctx is done.
// The returned unlock func releases it; calling unlock more than once is a no-op.
func (m *KeyedMutex[K]) Lock(ctx context.Context, key K) (unlock func(), err error) {
	l := m.acquireRef(key)

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		m.releaseRef(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			m.releaseRef(key, l)
		})
	}, nil
}

// Len returns the number of keys currently held or awaited.
func (m *KeyedMutex[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *KeyedMutex[K]) acquireRef(key K) *keyLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locks == nil {
		m.locks = make(map[K]*keyLock)
	}
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	return l
}

func (m *KeyedMutex[K]) releaseRef(key K, l *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}
