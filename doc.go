// Package ringbuffer provides a fixed-capacity circular buffer for staging a
// continuous stream of samples between producers and consumers.
//
// # Features
//
//   - Generic over the element type, fixed capacity chosen at construction
//   - Writes never block and never fail: newest data wins on overflow
//   - FIFO reads of everything or of a bounded count
//   - In-place SIMD gain of buffered float32/float64 samples via
//     github.com/tphakala/simd
//   - Ingestion from slices, iterators, other numeric types, and raw bytes
//   - Advisory change signal for callers that want backpressure
//   - Mutex-guarded or lock-free-by-confinement operation, chosen once
//
// # Quick Start
//
//	rb := ringbuffer.New[float32](4096)
//
//	// Producer
//	rb.Enqueue(samples)
//
//	// Optional gain, only available for float buffers
//	ringbuffer.Scale(rb, 0.5)
//
//	// Consumer
//	block := rb.DequeueN(512)
//
// # Overflow Policy
//
// The buffer favours freshness over completeness. Enqueueing more than
// [RingBuffer.Capacity] elements keeps only the last Capacity of them, and
// enqueueing into a buffer without enough [RingBuffer.Space] overwrites the
// oldest buffered elements. Dequeueing more than is buffered returns what
// exists. Neither case is an error; [RingBuffer.Dropped] counts the loss.
//
// This suits audio, where a late sample is worth less than a fresh one. A
// caller that must not lose data waits with [RingBuffer.WaitWritable] before
// enqueueing:
//
//	if err := rb.WaitWritable(ctx, len(chunk)); err != nil {
//	    return err
//	}
//	rb.Enqueue(chunk)
//
// # Conversion
//
// Capacity never changes for a buffer. [RingBuffer.ConvertTo] copies the
// content into a new buffer of a different capacity and
// [RingBuffer.MoveTo] does the same while draining the source. Both apply
// the overflow policy when the content does not fit. [RingBuffer.Clone]
// and [RingBuffer.CopyFrom] duplicate a buffer.
//
// # Thread Safety
//
// Buffers built with [New], or with [ConcurrencyLocked], are safe for
// concurrent use by multiple goroutines. Every operation holds the buffer's
// mutex for its duration, so no reader observes a partial write. Copies
// snapshot the source under its own lock.
//
// Buffers built with [ConcurrencyNone] skip locking entirely and must stay
// on one goroutine.
//
// Slices returned by Dequeue, DequeueN, and Peek are copies; no reference
// into the buffer's storage escapes.
package ringbuffer
