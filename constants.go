package ringbuffer

// Capacity limits
const (
	// MaxCapacity is the largest capacity NewWithConfig accepts.
	MaxCapacity = 1 << 30

	minCapacity = 1
)

// Sequence ingestion
const (
	// seqWindowHint bounds the initial allocation when draining a sequence
	// of unknown length; the window grows up to the buffer capacity.
	seqWindowHint = 1024
)
