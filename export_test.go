package ringbuffer

// Export internal state for testing.
// This file uses the _test.go suffix so it's only included in test builds.

// Cursors returns the physical head and tail positions and the occupancy flag.
func (b *RingBuffer[T]) Cursors() (head, tail int, occupied bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head, b.tail, b.occupied
}

// Storage returns a copy of the backing array.
func (b *RingBuffer[T]) Storage() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]T(nil), b.storage...)
}
