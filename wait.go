package ringbuffer

import (
	"context"
)

// Changed returns a channel that is closed the next time the buffer's
// occupancy changes: an enqueue, a dequeue that removed elements, a Clear,
// or a CopyFrom.
//
// The signal is advisory. Enqueue and Dequeue never wait on it; it exists
// for callers layering their own backpressure on top of the buffer.
func (b *RingBuffer[T]) Changed() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changed
}

// WaitReadable blocks until at least min(n, Capacity) elements are buffered
// or ctx is done.
//
// On a ConcurrencyNone buffer nothing else can change the occupancy while
// the caller waits, so an unmet condition only ends with ctx.
func (b *RingBuffer[T]) WaitReadable(ctx context.Context, n int) error {
	want := min(n, len(b.storage))
	return b.waitFor(ctx, func() bool {
		return b.size() >= want
	})
}

// WaitWritable blocks until at least min(n, Capacity) elements can be
// enqueued without overwriting, or ctx is done.
func (b *RingBuffer[T]) WaitWritable(ctx context.Context, n int) error {
	want := min(n, len(b.storage))
	return b.waitFor(ctx, func() bool {
		return len(b.storage)-b.size() >= want
	})
}

// waitFor evaluates ready under the lock and sleeps on the change signal
// until it holds.
func (b *RingBuffer[T]) waitFor(ctx context.Context, ready func() bool) error {
	for {
		b.mu.Lock()
		ok := ready()
		changed := b.changed
		b.mu.Unlock()

		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// notify wakes every waiter. Must be called with the lock held.
func (b *RingBuffer[T]) notify() {
	close(b.changed)
	b.changed = make(chan struct{})
}
