package ringbuffer

// state is a point-in-time copy of a buffer's storage and cursors.
type state[T any] struct {
	storage  []T
	head     int
	tail     int
	occupied bool
	dropped  uint64
}

// snapshot copies the buffer under its lock so the copy is never torn.
func (b *RingBuffer[T]) snapshot() state[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	storage := make([]T, len(b.storage))
	copy(storage, b.storage)
	return state[T]{
		storage:  storage,
		head:     b.head,
		tail:     b.tail,
		occupied: b.occupied,
		dropped:  b.dropped,
	}
}

// content returns the buffered elements of s in FIFO order.
func (s state[T]) content() []T {
	if !s.occupied {
		return []T{}
	}
	if s.head < s.tail {
		return append([]T(nil), s.storage[s.head:s.tail]...)
	}
	result := make([]T, 0, len(s.storage)-s.head+s.tail)
	result = append(result, s.storage[s.head:]...)
	return append(result, s.storage[:s.tail]...)
}

// Clone returns an independent buffer with the same capacity, content,
// cursor positions, dropped count, and locking mode.
func (b *RingBuffer[T]) Clone() *RingBuffer[T] {
	s := b.snapshot()

	return &RingBuffer[T]{
		mu:       newLocker(b.mode),
		mode:     b.mode,
		storage:  s.storage,
		head:     s.head,
		tail:     s.tail,
		occupied: s.occupied,
		dropped:  s.dropped,
		changed:  make(chan struct{}),
	}
}

// CopyFrom replaces b's content with src's. With equal capacities b
// becomes an exact duplicate of src. Otherwise b is emptied and src's
// content is enqueued, newest elements winning if it does not fit.
// src is never modified.
func (b *RingBuffer[T]) CopyFrom(src *RingBuffer[T]) {
	if src == b {
		return
	}

	// Snapshot before taking b's lock; holding both could deadlock
	// against a concurrent src.CopyFrom(b).
	s := src.snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(s.storage) == len(b.storage) {
		copy(b.storage, s.storage)
		b.head = s.head
		b.tail = s.tail
		b.occupied = s.occupied
		b.dropped = s.dropped
	} else {
		b.reset()
		b.enqueue(s.content())
	}
	b.notify()
}

// ConvertTo returns a new buffer of the given capacity holding a copy of
// b's content. b is left untouched. If the content does not fit, only the
// newest capacity elements are kept and the loss shows in the new buffer's
// Dropped count. A capacity below 1 is raised to 1.
func (b *RingBuffer[T]) ConvertTo(capacity int) *RingBuffer[T] {
	return b.refill(capacity, b.snapshot().content())
}

// MoveTo is ConvertTo that drains b instead of copying from it.
func (b *RingBuffer[T]) MoveTo(capacity int) *RingBuffer[T] {
	return b.refill(capacity, b.Dequeue())
}

func (b *RingBuffer[T]) refill(capacity int, content []T) *RingBuffer[T] {
	capacity = max(capacity, minCapacity)
	converted := newRingBuffer[T](capacity, b.mode)
	converted.enqueue(content)
	return converted
}
