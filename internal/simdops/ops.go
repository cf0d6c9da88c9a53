// Package simdops binds the generic sample types used by the ring buffer to
// the SIMD kernels in github.com/tphakala/simd.
//
// The type switch in For happens once per call site, not per sample, so the
// in-place gain path stays a straight call into the vectorized kernel.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point sample types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
type Ops[F Float] struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s.
	// dst and a may be the same slice.
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		Scale: f32.Scale,
	}
	ops64 = Ops[float64]{
		Scale: f64.Scale,
	}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// ScaleRuns applies Scale in place to each run. Empty runs are skipped.
func ScaleRuns[F Float](factor F, runs ...[]F) {
	ops := For[F]()
	for _, run := range runs {
		if len(run) == 0 {
			continue
		}
		ops.Scale(run, run, factor)
	}
}

// Info describes the CPU features the kernels were dispatched for.
func Info() string {
	return cpu.Info()
}
