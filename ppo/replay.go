package ppo

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/jssp-rl/jssp-ppo/types"
)

// ReplayBuffer is the fixed-capacity priority array parallel to the epoch
// buffer. Entries beyond the current length may hold stale priorities from a
// previous, longer epoch; they never participate in sampling or write-back.
type ReplayBuffer struct {
	priorities []float64
	length     int

	alpha float64
	floor float64
	src   rand.Source
}

// NewReplayBuffer allocates a buffer with the given fixed capacity. Alpha is
// the priority exponent, floor the value negative advantages are clamped to
// before exponentiation.
func NewReplayBuffer(capacity int, alpha, floor float64, src rand.Source) *ReplayBuffer {
	return &ReplayBuffer{
		priorities: make([]float64, capacity),
		alpha:      alpha,
		floor:      floor,
		src:        src,
	}
}

func (rb *ReplayBuffer) Capacity() int {
	return len(rb.priorities)
}

func (rb *ReplayBuffer) Len() int {
	return rb.length
}

// SetLength binds the buffer to the current epoch buffer's size. Stale
// entries beyond the new length are kept but unreachable.
func (rb *ReplayBuffer) SetLength(n int) error {
	if n < 0 || n > len(rb.priorities) {
		return fmt.Errorf("epoch buffer length %d exceeds priority capacity %d", n, len(rb.priorities))
	}
	rb.length = n
	return nil
}

// Priorities returns a copy of the valid priority range.
func (rb *ReplayBuffer) Priorities() []float64 {
	out := make([]float64, rb.length)
	copy(out, rb.priorities[:rb.length])
	return out
}

// priority converts an advantage to |adv|^alpha, clamping non-positive
// advantages to the floor first so stored priorities are strictly positive.
func (rb *ReplayBuffer) priority(advantage float64) float64 {
	if advantage <= 0 {
		advantage = rb.floor
	}
	return math.Pow(math.Abs(advantage), rb.alpha)
}

// WriteBack stores the priorities derived from the given advantages at the
// given epoch-buffer indices.
func (rb *ReplayBuffer) WriteBack(indices []int, advantages []float64) error {
	if len(indices) != len(advantages) {
		return fmt.Errorf("writeback: %d indices, %d advantages", len(indices), len(advantages))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= rb.length {
			return fmt.Errorf("writeback index %d out of range [0,%d)", idx, rb.length)
		}
		p := rb.priority(advantages[i])
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: priority at index %d", types.ErrNumericalInstability, idx)
		}
		rb.priorities[idx] = p
	}
	return nil
}

// Sample draws size indices in [0, length) with replacement, weighted by the
// normalized priorities.
func (rb *ReplayBuffer) Sample(size int) ([]int, error) {
	if rb.length == 0 {
		return nil, fmt.Errorf("sampling from empty priority buffer")
	}
	valid := rb.priorities[:rb.length]
	sum := 0.0
	for _, p := range valid {
		sum += p
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: priority sum %v", types.ErrNumericalInstability, sum)
	}
	indices := make([]int, size)
	for i := 0; i < size; i++ {
		idx, ok := sampleuv.NewWeighted(valid, rb.src).Take()
		if !ok {
			return nil, fmt.Errorf("%w: weighted draw failed", types.ErrNumericalInstability)
		}
		indices[i] = idx
	}
	return indices, nil
}
