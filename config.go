package ringbuffer

import (
	"errors"
	"fmt"
	"sync"
)

// Concurrency selects how a RingBuffer serializes its operations.
// It is decided once, when the buffer is built.
type Concurrency int

const (
	// ConcurrencyLocked guards every operation with a mutex. Safe for any
	// number of producer and consumer goroutines. This is the default.
	ConcurrencyLocked Concurrency = iota

	// ConcurrencyNone uses a no-op lock. Only for buffers confined to a
	// single goroutine, such as a per-stage scratch buffer.
	ConcurrencyNone
)

// String returns the mode name.
func (c Concurrency) String() string {
	switch c {
	case ConcurrencyLocked:
		return "locked"
	case ConcurrencyNone:
		return "none"
	default:
		return fmt.Sprintf("Concurrency(%d)", int(c))
	}
}

// Config holds ring buffer construction parameters.
type Config struct {
	// Capacity is the fixed number of elements the buffer holds.
	Capacity int

	// Concurrency selects the locking mode.
	Concurrency Concurrency
}

// ErrInvalidConfig indicates invalid construction parameters.
var ErrInvalidConfig = errors.New("invalid ring buffer configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Capacity < minCapacity {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidConfig, minCapacity)
	}

	if c.Capacity > MaxCapacity {
		return fmt.Errorf("%w: capacity too large (max %d)", ErrInvalidConfig, MaxCapacity)
	}

	switch c.Concurrency {
	case ConcurrencyLocked, ConcurrencyNone:
	default:
		return fmt.Errorf("%w: unknown concurrency mode %v", ErrInvalidConfig, c.Concurrency)
	}

	return nil
}

// noLock satisfies sync.Locker without synchronizing.
type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

func newLocker(mode Concurrency) sync.Locker {
	if mode == ConcurrencyNone {
		return noLock{}
	}
	return &sync.Mutex{}
}
