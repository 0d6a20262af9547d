package xsync

import (
	"context"
	"sync"
)

// Broadcaster fans the latest published value out to every subscriber.
// Each subscriber holds at most one pending value: a slow reader skips
// superseded values but always receives the newest one. Publish never blocks.
//
// The zero value is ready to use.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[chan T]struct{}
	latest T
	has    bool
	closed bool
	done   chan struct{}
}

// Publish records v as the latest value and offers it to every subscriber.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.latest, b.has = v, true
	for ch := range b.subs {
		offer(ch, v)
	}
}

// Latest returns the most recently published value, if any.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}

// Subscribe returns a channel that first receives the latest value (if one
// was published) and then every later one. The channel is closed when ctx is
// done or the broadcaster is closed.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	if b.subs == nil {
		b.subs = make(map[chan T]struct{})
	}
	b.subs[ch] = struct{}{}
	if b.has {
		ch <- b.latest
	}
	done := b.doneLocked()
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()
	return ch
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are dropped and later
// subscriptions receive an already-closed channel.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.doneLocked())
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Broadcaster[T]) doneLocked() chan struct{} {
	if b.done == nil {
		b.done = make(chan struct{})
	}
	return b.done
}

// offer replaces any pending value in ch with v. Callers hold b.mu, so no
// other goroutine sends on ch concurrently and the final send cannot block.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
