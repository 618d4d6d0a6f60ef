package core

import "time"

// Budget caps the iterative growth process by wall clock and iteration count.
// It is the safety net against parameter combinations that never reach their
// target size; exhaustion is a normal stop, not an error.
type Budget struct {
	deadline time.Time
	maxIters int
	iters    int
}

// NewBudget constructs a budget. A non-positive duration disables the clock
// cap; a non-positive maxIters disables the iteration cap.
func NewBudget(wall time.Duration, maxIters int) *Budget {
	b := &Budget{maxIters: maxIters}
	if wall > 0 {
		b.deadline = time.Now().Add(wall)
	}
	return b
}

// Spend records one iteration and reports whether the budget still has room.
func (b *Budget) Spend() bool {
	b.iters++
	return !b.Exhausted()
}

// Exhausted reports whether either cap has been reached.
func (b *Budget) Exhausted() bool {
	if b.maxIters > 0 && b.iters >= b.maxIters {
		return true
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return true
	}
	return false
}

// Iterations returns the number of iterations spent so far.
func (b *Budget) Iterations() int { return b.iters }
