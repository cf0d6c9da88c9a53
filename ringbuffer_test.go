package ringbuffer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-ringbuffer/internal/testutil"
)

func TestNew_InitialState(t *testing.T) {
	rb := New[float32](128)

	assert.Equal(t, 128, rb.Capacity())
	assert.Equal(t, 0, rb.Size())
	assert.Equal(t, 128, rb.Space())
	assert.True(t, rb.IsEmpty())
	assert.Zero(t, rb.Dropped())
	assert.Equal(t, ConcurrencyLocked, rb.Concurrency())

	head, tail, occupied := rb.Cursors()
	assert.Zero(t, head)
	assert.Zero(t, tail)
	assert.False(t, occupied)
	assert.Equal(t, make([]float32, 128), rb.Storage())
}

func TestNew_ClampsCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		rb := New[int](capacity)
		assert.Equal(t, 1, rb.Capacity(), "capacity %d", capacity)
	}
}

func TestNewWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"locked", &Config{Capacity: 16}, false},
		{"single goroutine", &Config{Capacity: 16, Concurrency: ConcurrencyNone}, false},
		{"minimum capacity", &Config{Capacity: 1}, false},
		{"nil config", nil, true},
		{"zero capacity", &Config{Capacity: 0}, true},
		{"negative capacity", &Config{Capacity: -1}, true},
		{"too large", &Config{Capacity: MaxCapacity + 1}, true},
		{"unknown mode", &Config{Capacity: 4, Concurrency: Concurrency(9)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := NewWithConfig[int](tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Nil(t, rb)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Capacity, rb.Capacity())
			assert.Equal(t, tt.cfg.Concurrency, rb.Concurrency())
		})
	}
}

func TestConcurrency_String(t *testing.T) {
	assert.Equal(t, "locked", ConcurrencyLocked.String())
	assert.Equal(t, "none", ConcurrencyNone.String())
	assert.Equal(t, "Concurrency(7)", Concurrency(7).String())
}

func TestEnqueueDequeue_FIFO(t *testing.T) {
	rb := New[int](16)

	rb.Enqueue([]int{1, 2, 3})
	rb.Enqueue([]int{4, 5})

	assert.Equal(t, 5, rb.Size())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rb.Dequeue())
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, []int{}, rb.Dequeue())
}

func TestEnqueue_Wraparound(t *testing.T) {
	rb := New[int](5)

	rb.Enqueue([]int{1, 2, 3})
	require.Equal(t, []int{1, 2}, rb.DequeueN(2))
	rb.Enqueue([]int{4, 5, 6, 7})

	assert.Equal(t, 5, rb.Size())
	assert.Zero(t, rb.Dropped())

	head, tail, occupied := rb.Cursors()
	assert.Equal(t, 2, head)
	assert.Equal(t, 2, tail, "full buffer collapses cursors")
	assert.True(t, occupied)

	assert.Equal(t, []int{3, 4, 5, 6, 7}, rb.Dequeue())
}

func TestEnqueue_OverwritesOldest(t *testing.T) {
	rb := New[int](4)

	rb.Enqueue([]int{1, 2, 3})
	rb.Enqueue([]int{4, 5, 6})

	assert.Equal(t, 4, rb.Size())
	assert.Zero(t, rb.Space())
	assert.Equal(t, uint64(2), rb.Dropped())
	assert.Equal(t, []int{3, 4, 5, 6}, rb.Dequeue())
}

func TestEnqueue_InputLongerThanCapacity(t *testing.T) {
	t.Run("empty buffer", func(t *testing.T) {
		rb := New[int](4)
		rb.Enqueue(testutil.Sequence(1, 10))

		assert.Equal(t, 4, rb.Size())
		assert.Equal(t, uint64(6), rb.Dropped())
		assert.Equal(t, []int{7, 8, 9, 10}, rb.Dequeue())
	})

	t.Run("existing content is overwritten too", func(t *testing.T) {
		rb := New[int](4)
		rb.Enqueue([]int{1})
		rb.Enqueue(testutil.Sequence(2, 6))

		assert.Equal(t, uint64(3), rb.Dropped())
		assert.Equal(t, []int{4, 5, 6, 7}, rb.Dequeue())
	})

	t.Run("exactly capacity", func(t *testing.T) {
		rb := New[int](4)
		rb.Enqueue([]int{1, 2, 3, 4})

		assert.Zero(t, rb.Dropped())
		assert.Equal(t, 4, rb.Size())
		assert.Equal(t, []int{1, 2, 3, 4}, rb.Dequeue())
	})
}

func TestEnqueue_EmptyInputIsNoop(t *testing.T) {
	rb := New[int](4)
	changed := rb.Changed()

	rb.Enqueue(nil)
	rb.Enqueue([]int{})

	assert.True(t, rb.IsEmpty())
	select {
	case <-changed:
		t.Fatal("empty enqueue should not signal a change")
	default:
	}
}

func TestDequeueN(t *testing.T) {
	tests := []struct {
		name     string
		request  int
		want     []int
		wantLeft int
	}{
		{"partial", 2, []int{1, 2}, 3},
		{"exact", 5, []int{1, 2, 3, 4, 5}, 0},
		{"more than buffered", 100, []int{1, 2, 3, 4, 5}, 0},
		{"zero", 0, []int{}, 5},
		{"negative", -3, []int{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := New[int](8)
			rb.Enqueue([]int{1, 2, 3, 4, 5})

			got := rb.DequeueN(tt.request)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLeft, rb.Size())
			assert.Equal(t, tt.wantLeft == 0, rb.IsEmpty())
		})
	}
}

func TestDequeueN_FullBuffer(t *testing.T) {
	rb := New[int](3)
	rb.Enqueue([]int{1, 2, 3})

	assert.Equal(t, []int{1, 2}, rb.DequeueN(2))
	assert.Equal(t, 1, rb.Size())
	assert.Equal(t, []int{3}, rb.DequeueN(3))
	assert.True(t, rb.IsEmpty())
}

func TestDequeue_ZeroesReleasedSlots(t *testing.T) {
	rb := New[*int](4)
	a, b, c := 1, 2, 3
	rb.Enqueue([]*int{&a, &b, &c})

	rb.DequeueN(2)

	storage := rb.Storage()
	assert.Nil(t, storage[0])
	assert.Nil(t, storage[1])
	assert.Same(t, &c, storage[2])
}

func TestPeek(t *testing.T) {
	rb := New[int](4)
	rb.Enqueue([]int{1, 2, 3})
	rb.DequeueN(2)
	rb.Enqueue([]int{4, 5, 6})

	assert.Equal(t, []int{3, 4}, rb.Peek(2))
	assert.Equal(t, []int{3, 4, 5, 6}, rb.Peek(10))
	assert.Equal(t, []int{}, rb.Peek(0))
	assert.Equal(t, 4, rb.Size(), "peek must not consume")

	peeked := rb.Peek(1)
	peeked[0] = 99
	assert.Equal(t, []int{3}, rb.DequeueN(1), "peek must return a copy")
}

func TestClear_Idempotent(t *testing.T) {
	rb := New[float64](4)
	rb.Enqueue([]float64{1, 2, 3, 4, 5})
	rb.DequeueN(1)

	rb.Clear()

	assert.Equal(t, 0, rb.Size())
	assert.True(t, rb.IsEmpty())
	assert.Zero(t, rb.Dropped())
	assert.Equal(t, []float64{}, rb.Dequeue())
	assert.Equal(t, make([]float64, 4), rb.Storage())

	head, tail, occupied := rb.Cursors()
	rb.Clear()
	head2, tail2, occupied2 := rb.Cursors()

	assert.Equal(t, head, head2)
	assert.Equal(t, tail, tail2)
	assert.Equal(t, occupied, occupied2)
	assert.Equal(t, make([]float64, 4), rb.Storage())
}

func TestOccupancyConservation(t *testing.T) {
	rb := New[int](6)
	rb.Enqueue([]int{1, 2, 3, 4})
	rb.DequeueN(3)
	rb.Enqueue([]int{5, 6, 7})
	before := rb.Peek(rb.Size())

	taken := rb.DequeueN(2)
	rb.Enqueue(taken)

	assert.Equal(t, len(before), rb.Size())
	assert.ElementsMatch(t, before, rb.Peek(rb.Size()))
}

// TestRandomOperations_MatchModel runs a long random mix of operations
// against a slice model of the overflow policy.
func TestRandomOperations_MatchModel(t *testing.T) {
	const (
		capacity   = 13
		operations = 5000
	)

	rng := rand.New(rand.NewPCG(1, 2))
	rb := New[int](capacity)
	var model []int
	var dropped uint64
	next := 0

	for op := range operations {
		switch rng.IntN(4) {
		case 0, 1:
			n := rng.IntN(2*capacity + 1)
			input := testutil.Sequence(next, n)
			next += n
			rb.Enqueue(input)

			model = append(model, input...)
			if excess := len(model) - capacity; excess > 0 {
				dropped += uint64(excess)
				model = model[excess:]
			}
		case 2:
			n := rng.IntN(capacity + 3)
			got := rb.DequeueN(n)
			want := model[:min(n, len(model))]
			require.Equal(t, append([]int{}, want...), got, "op %d", op)
			model = append([]int(nil), model[len(want):]...)
		case 3:
			require.Equal(t, append([]int{}, model...), rb.Peek(capacity), "op %d", op)
		}

		testutil.AssertSizeWithin(t, rb.Size(), capacity)
		require.Equal(t, len(model), rb.Size(), "op %d", op)
		require.Equal(t, dropped, rb.Dropped(), "op %d", op)
	}
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	rb := New[float32](8192)
	chunk := testutil.Ramp[float32](0, 512)

	b.ReportAllocs()
	for b.Loop() {
		rb.Enqueue(chunk)
		_ = rb.DequeueN(len(chunk))
	}
}
