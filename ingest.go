package ringbuffer

import (
	"encoding/binary"
	"iter"
	"slices"

	"github.com/tphakala/go-audio-ringbuffer/internal/cast"
)

// Number is the set of element types EnqueueFrom converts between.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sample is the set of fixed-size element types EnqueueBytes can decode.
type Sample interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// EnqueueSeq drains seq and enqueues what it produced, with the same
// overflow policy as Enqueue. The sequence is consumed before the lock is
// taken and only its newest Capacity elements are retained meanwhile.
func (b *RingBuffer[T]) EnqueueSeq(seq iter.Seq[T]) {
	tail, skipped := collectTail(seq, len(b.storage), -1)
	b.push(tail, skipped)
}

// EnqueueN is EnqueueSeq reading at most count elements from seq.
func (b *RingBuffer[T]) EnqueueN(seq iter.Seq[T], count int) {
	if count <= 0 {
		return
	}
	tail, skipped := collectTail(seq, len(b.storage), count)
	b.push(tail, skipped)
}

// EnqueueFrom converts src to the buffer's element type and enqueues it.
// Only the elements that can survive the overflow policy are converted.
func EnqueueFrom[T, S Number](b *RingBuffer[T], src []S) {
	skipped := max(len(src)-len(b.storage), 0)
	b.push(cast.Cast[T](src[skipped:]), skipped)
}

// EnqueueBytes decodes p as consecutive fixed-size elements in the given
// byte order and enqueues them. Trailing bytes that do not form a whole
// element are ignored. It returns the number of elements decoded.
func EnqueueBytes[T Sample](b *RingBuffer[T], p []byte, order binary.ByteOrder) int {
	var zero T
	n := len(p) / binary.Size(zero)
	if n == 0 {
		return 0
	}

	values := make([]T, n)
	if _, err := binary.Decode(p[:n*binary.Size(zero)], order, values); err != nil {
		panic("ringbuffer: decoding whole elements failed: " + err.Error())
	}
	b.Enqueue(values)

	return n
}

// collectTail reads up to limit elements from seq (all of them when limit
// is negative) and returns the newest capacity of them in order, plus how
// many older ones were discarded.
func collectTail[T any](seq iter.Seq[T], capacity, limit int) (tail []T, skipped int) {
	window := make([]T, 0, min(capacity, seqWindowHint))
	start, taken := 0, 0

	for v := range seq {
		if len(window) < capacity {
			window = append(window, v)
		} else {
			window[start] = v
			start = (start + 1) % capacity
		}

		taken++
		if taken == limit {
			break
		}
	}

	return slices.Concat(window[start:], window[:start]), taken - len(window)
}
