package t2048

import (
	"context"
	"sync"
)

// Barrier is a counted completion barrier over a fixed set of tiles.
// Every tile must signal once before the barrier opens; signals may arrive
// in any order and from any goroutine. Repeated or unknown signals are ignored.
type Barrier struct {
	mu      sync.Mutex
	pending map[TileID]struct{}
	done    chan struct{}
}

// NewBarrier creates a barrier waiting on ids. With no ids it is already open.
func NewBarrier(ids ...TileID) *Barrier {
	b := &Barrier{
		pending: make(map[TileID]struct{}, len(ids)),
		done:    make(chan struct{}),
	}
	for _, id := range ids {
		b.pending[id] = struct{}{}
	}
	if len(b.pending) == 0 {
		close(b.done)
	}
	return b
}

// Signal marks id as settled. It returns true only for the signal that
// opened the barrier.
func (b *Barrier) Signal(id TileID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.pending[id]; !ok {
		return false
	}
	delete(b.pending, id)
	if len(b.pending) == 0 {
		close(b.done)
		return true
	}
	return false
}

// Pending returns how many tiles have not signalled yet.
func (b *Barrier) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Done returns a channel closed once every tile has signalled.
func (b *Barrier) Done() <-chan struct{} {
	return b.done
}

// Settled reports whether the barrier is open.
func (b *Barrier) Settled() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the barrier opens or ctx is done. Cancelling ctx only
// abandons the wait; the move itself still has to be settled and finished.
func (b *Barrier) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
