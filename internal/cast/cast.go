// Package cast converts slices between numeric element types.
//
// Large inputs are split into contiguous chunks converted concurrently; the
// result is identical to a sequential conversion, element for element.
package cast

import (
	"runtime"
	"sync"
)

// ParallelThreshold is the input length at which Cast starts fanning out
// across goroutines. Below it the goroutine setup costs more than the copy.
const ParallelThreshold = 1 << 16

// minChunk keeps every worker busy with at least this many elements.
const minChunk = 4096

// Number is the set of element types Cast can convert between.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Cast returns a new slice holding from converted element-wise to To.
// Conversion follows Go's conversion rules for numeric types.
func Cast[To, From Number](from []From) []To {
	dst := make([]To, len(from))
	CastInto(dst, from)
	return dst
}

// CastInto converts from into dst and returns the number of elements written,
// min(len(dst), len(from)).
func CastInto[To, From Number](dst []To, from []From) int {
	workers := 1
	if len(from) >= ParallelThreshold {
		workers = runtime.GOMAXPROCS(0)
	}
	return CastWorkers(dst, from, workers)
}

// CastWorkers is CastInto with an explicit worker count. workers <= 1 converts
// on the calling goroutine.
func CastWorkers[To, From Number](dst []To, from []From, workers int) int {
	n := min(len(dst), len(from))
	dst, from = dst[:n], from[:n]

	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		castRange(dst, from)
		return n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			castRange(dst[lo:hi], from[lo:hi])
		}(start, end)
	}
	wg.Wait()

	return n
}

func castRange[To, From Number](dst []To, from []From) {
	for i, v := range from {
		dst[i] = To(v)
	}
}
