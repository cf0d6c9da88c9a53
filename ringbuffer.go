package ringbuffer

import (
	"sync"
)

// RingBuffer is a fixed-capacity circular buffer of T.
//
// Writes never block and never fail: input longer than the capacity keeps
// only its newest elements, and writes that do not fit overwrite the oldest
// buffered elements. Reads return what is buffered, oldest first.
type RingBuffer[T any] struct {
	mu       sync.Locker
	mode     Concurrency
	storage  []T
	head     int // oldest unread element, valid while occupied
	tail     int // one past the newest element
	occupied bool
	dropped  uint64
	changed  chan struct{}
}

// New creates a mutex-guarded ring buffer holding capacity elements.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return newRingBuffer[T](capacity, ConcurrencyLocked)
}

// NewWithConfig creates a ring buffer from a validated configuration.
func NewWithConfig[T any](cfg *Config) (*RingBuffer[T], error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newRingBuffer[T](cfg.Capacity, cfg.Concurrency), nil
}

func newRingBuffer[T any](capacity int, mode Concurrency) *RingBuffer[T] {
	return &RingBuffer[T]{
		mu:      newLocker(mode),
		mode:    mode,
		storage: make([]T, capacity),
		changed: make(chan struct{}),
	}
}

// Capacity returns the fixed number of elements the buffer can hold.
func (b *RingBuffer[T]) Capacity() int {
	// storage is never resized, so no lock is needed.
	return len(b.storage)
}

// Concurrency returns the locking mode the buffer was built with.
func (b *RingBuffer[T]) Concurrency() Concurrency {
	return b.mode
}

// Size returns the number of buffered elements, 0..Capacity.
func (b *RingBuffer[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size()
}

// IsEmpty reports whether the buffer holds no elements.
func (b *RingBuffer[T]) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.occupied
}

// Space returns how many elements can be enqueued before the oldest
// content starts being overwritten.
func (b *RingBuffer[T]) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.storage) - b.size()
}

// Dropped returns the number of elements lost to truncation or overwrite
// since construction or the last Clear.
func (b *RingBuffer[T]) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Clear empties the buffer and zeroes its storage so released elements do
// not linger. It also resets the dropped counter.
func (b *RingBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
	b.notify()
}

// Enqueue appends src. If src is longer than the capacity only its last
// Capacity elements are kept. If the buffer cannot hold everything, the
// oldest buffered elements are overwritten.
func (b *RingBuffer[T]) Enqueue(src []T) {
	b.push(src, 0)
}

// Dequeue removes and returns everything buffered.
func (b *RingBuffer[T]) Dequeue() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dequeue(b.size())
}

// DequeueN removes and returns up to n of the oldest elements. It returns an
// empty slice when the buffer is empty or n <= 0.
func (b *RingBuffer[T]) DequeueN(n int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dequeue(n)
}

// Peek returns a copy of up to n of the oldest elements without removing
// them.
func (b *RingBuffer[T]) Peek(n int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = min(n, b.size())
	if n <= 0 {
		return []T{}
	}

	first, second := b.span(n)
	result := make([]T, 0, n)
	result = append(result, first...)
	return append(result, second...)
}

// push enqueues src under the lock. skipped counts input elements the
// caller already discarded before handing src over.
func (b *RingBuffer[T]) push(src []T, skipped int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropped += uint64(skipped)
	if b.enqueue(src) {
		b.notify()
	}
}

// size must be called with the lock held.
func (b *RingBuffer[T]) size() int {
	if !b.occupied {
		return 0
	}
	if n := (b.tail - b.head + len(b.storage)) % len(b.storage); n != 0 {
		return n
	}
	return len(b.storage)
}

// span returns the first n buffered elements as at most two contiguous
// runs of storage. n must not exceed size().
func (b *RingBuffer[T]) span(n int) (first, second []T) {
	if n <= 0 {
		return nil, nil
	}
	end := b.head + n
	if end <= len(b.storage) {
		return b.storage[b.head:end], nil
	}
	return b.storage[b.head:], b.storage[:end-len(b.storage)]
}

// enqueue reports whether the buffer changed.
func (b *RingBuffer[T]) enqueue(src []T) bool {
	capacity := len(b.storage)
	if len(src) > capacity {
		b.dropped += uint64(len(src) - capacity)
		src = src[len(src)-capacity:]
	}

	n := len(src)
	if n == 0 {
		return false
	}

	prev := b.size()

	// Write may wrap around the physical end of storage.
	written := copy(b.storage[b.tail:], src)
	copy(b.storage, src[written:])
	b.tail = (b.tail + n) % capacity

	// Oldest content was overwritten; the buffer is now full.
	if overflow := prev + n - capacity; overflow > 0 {
		b.dropped += uint64(overflow)
		b.head = b.tail
	}
	b.occupied = true

	return true
}

func (b *RingBuffer[T]) dequeue(n int) []T {
	size := b.size()
	n = min(n, size)
	if n <= 0 {
		return []T{}
	}

	first, second := b.span(n)
	result := make([]T, 0, n)
	result = append(result, first...)
	result = append(result, second...)

	clear(first)
	clear(second)

	b.head = (b.head + n) % len(b.storage)
	b.occupied = n < size
	b.notify()

	return result
}

func (b *RingBuffer[T]) reset() {
	clear(b.storage)
	b.head = 0
	b.tail = 0
	b.occupied = false
	b.dropped = 0
}
