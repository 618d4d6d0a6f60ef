package core

import (
	"math"
	"math/rand/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// Every stochastic decision in the engine goes through one of these so that a
// fixed seed reproduces the same structure.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.r.Float64() < p
}

// Float64 returns a random value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Range returns a random value in [min, max).
func (r *RNG) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.r.Float64()*(max-min)
}

// IntN returns a random int in [0, n). n must be positive.
func (r *RNG) IntN(n int) int { return r.r.IntN(n) }

// Between returns a random int in [min, max] inclusive.
func (r *RNG) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.r.IntN(max-min+1)
}

// UnitVec3 returns a uniformly distributed direction on the unit sphere.
func (r *RNG) UnitVec3() Vec3 {
	// Marsaglia rejection sampling.
	for {
		a := r.Range(-1, 1)
		b := r.Range(-1, 1)
		s := a*a + b*b
		if s >= 1 {
			continue
		}
		m := 2 * math.Sqrt(1-s)
		return Vec3{X: a * m, Y: b * m, Z: 1 - 2*s}
	}
}

// Jitter returns v displaced by a random vector of magnitude at most amount.
func (r *RNG) Jitter(v Vec3, amount float64) Vec3 {
	if amount <= 0 {
		return v
	}
	return v.Add(r.UnitVec3().Scale(r.Float64() * amount))
}

// Shuffle randomizes the order of the first n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.r.Shuffle(n, swap)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
