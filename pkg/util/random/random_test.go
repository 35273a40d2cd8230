package random

import (
	"testing"

	"gotest.tools/assert"
)

func TestDeterministic(t *testing.T) {
	r1 := New(301)
	r2 := New(301)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, r1.Next(), r2.Next())
	}
}

func TestDegenerateSeed(t *testing.T) {
	r0 := New(0)
	r1 := New(1)
	assert.Equal(t, r0.Next(), r1.Next())

	rm := New(M)
	r1.Reset(1)
	assert.Equal(t, rm.Next(), r1.Next())
}

func TestRange(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.Next()
		assert.Assert(t, v > 0 && v < M, v)
		assert.Assert(t, r.Uniform(10) < 10)
		assert.Assert(t, r.Skewed(5) < 1<<5)
	}
}

func TestOneInHalf(t *testing.T) {
	r := New(42)
	hits := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if r.OneIn(2) {
			hits++
		}
	}
	// 50% within a generous band
	assert.Assert(t, hits > n*45/100 && hits < n*55/100, hits)
}
