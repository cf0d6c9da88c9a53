package ringbuffer

import (
	"github.com/tphakala/go-audio-ringbuffer/internal/simdops"
)

// Float is the set of element types Scale accepts.
type Float interface {
	float32 | float64
}

// Scale multiplies every buffered element of b by factor in place. Size and
// order are unchanged and an empty buffer is left as is. The occupied region
// is processed as at most two contiguous runs with SIMD kernels.
//
// Scale is a function rather than a method so that it only exists for
// floating-point buffers.
func Scale[F Float](b *RingBuffer[F], factor F) {
	b.mu.Lock()
	defer b.mu.Unlock()

	first, second := b.span(b.size())
	simdops.ScaleRuns(factor, first, second)
}

// SIMDInfo describes the CPU features used by Scale.
func SIMDInfo() string {
	return simdops.Info()
}
