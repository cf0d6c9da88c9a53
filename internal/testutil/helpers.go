// Package testutil provides reusable test helpers for ring buffer tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-6
)

// Float is the set of sample types the numeric helpers accept.
type Float interface {
	float32 | float64
}

// Ramp returns n samples counting up from start in steps of one.
func Ramp[F Float](start F, n int) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = start + F(i)
	}
	return s
}

// Sequence returns the integers [start, start+n).
func Sequence(start, n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = start + i
	}
	return s
}

// AssertSamplesInDelta verifies that two sample slices have the same length
// and agree element-wise within tolerance.
func AssertSamplesInDelta[F Float](t *testing.T, expected, actual []F, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, float64(expected[i]), float64(actual[i]), tolerance,
			"sample %d: expected %v, got %v", i, expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F Float](t *testing.T, s []F, minVal, maxVal F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%v is outside range [%v, %v]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertSizeWithin verifies that an occupancy reading never exceeds capacity.
func AssertSizeWithin(t *testing.T, size, capacity int, msgAndArgs ...any) bool {
	t.Helper()
	if size < 0 || size > capacity {
		return assert.Fail(t, "size out of bounds",
			"size %d is outside [0, %d]", size, capacity)
	}
	return true
}
