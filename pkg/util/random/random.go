// Package random is a small deterministic Park-Miller generator. It is cheap
// enough to call once per skiplist insertion and reproducible from a seed,
// which keeps node heights repeatable in tests.
package random

import "time"

const (
	M = uint32(2147483647) // 2^31-1
	A = uint32(16807)      // bits 14, 8, 7, 5, 2, 1, 0
)

type Random struct {
	seed uint32
}

// New returns a generator seeded with s. Seeds 0 and M are degenerate for
// this generator and are replaced by 1.
func New(s uint32) *Random {
	r := &Random{}
	r.Reset(s)
	return r
}

// NewFromTime seeds a generator from the wall clock.
func NewFromTime() *Random {
	return New(uint32(time.Now().UnixNano()))
}

// Reset restarts the sequence from seed s.
func (r *Random) Reset(s uint32) {
	s &= 0x7fffffff
	if s == 0 || s == M {
		s = 1
	}
	r.seed = s
}

func (r *Random) Next() uint32 {
	product := uint64(r.seed) * uint64(A)
	r.seed = uint32(product>>31) + (uint32(product) & M)

	// The first reduction may overflow by 1 bit
	if r.seed > M {
		r.seed -= M
	}

	return r.seed
}

// Uniform returns a uniformly distributed value in the range [0..n-1].
// REQUIRES: n > 0
func (r *Random) Uniform(n int) uint32 {
	return r.Next() % uint32(n)
}

// OneIn randomly returns true ~"1/n" of the time, and false otherwise.
// REQUIRES: n > 0
func (r *Random) OneIn(n int) bool {
	return (r.Next() % uint32(n)) == 0
}

// Skewed picks "base" uniformly from range [0,maxLog] and then returns "base"
// random bits, i.e. a number in [0,2^maxLog-1] biased towards small values.
func (r *Random) Skewed(maxLog int) uint32 {
	return r.Uniform(1 << r.Uniform(maxLog+1))
}
