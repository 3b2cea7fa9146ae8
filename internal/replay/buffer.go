// Package replay provides the bounded experience buffer the training loop
// samples from.
package replay

import (
	"math/rand"
	"time"

	"github.com/zero-day-ai/strider/internal/types"
)

// Buffer is a bounded, insertion-ordered collection of experiences with
// FIFO eviction. It is a plain ring buffer, not a priority structure.
// Not safe for concurrent use; it is owned by exactly one agent.
type Buffer struct {
	entries  []types.Experience
	capacity int
	rng      *rand.Rand
}

// NewBuffer creates a buffer with the given capacity. Capacities below one
// default to one so an append can never fail.
func NewBuffer(capacity int, rng *rand.Rand) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries:  make([]types.Experience, 0, capacity),
		capacity: capacity,
		rng:      rng,
	}
}

// Append records one experience, evicting the oldest entry when full.
func (b *Buffer) Append(state types.ObservableState, reward float64, at time.Time) {
	if len(b.entries) >= b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, types.Experience{
		State:     state,
		Reward:    reward,
		Timestamp: at,
	})
}

// Len returns the current number of stored experiences.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Capacity returns the configured maximum size.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Sample draws n experiences uniformly at random without replacement.
// Returns nil when fewer than n experiences are stored; that nil is the
// signal that training should be skipped for this call.
func (b *Buffer) Sample(n int) []types.Experience {
	if n <= 0 || len(b.entries) < n {
		return nil
	}

	perm := b.rng.Perm(len(b.entries))
	batch := make([]types.Experience, n)
	for i := 0; i < n; i++ {
		batch[i] = b.entries[perm[i]]
	}
	return batch
}

// All returns the stored experiences in insertion order. The returned slice
// is a copy.
func (b *Buffer) All() []types.Experience {
	out := make([]types.Experience, len(b.entries))
	copy(out, b.entries)
	return out
}
