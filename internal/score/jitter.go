package score

import "math/rand/v2"

// Jitter picks an integer in an inclusive range for override bounds
type Jitter interface {
	IntRange(lo, hi int) int
}

// RandomJitter draws uniformly from a math/rand/v2 source
type RandomJitter struct {
	rng *rand.Rand
}

// NewRandomJitter uses the global generator
func NewRandomJitter() *RandomJitter {
	return &RandomJitter{}
}

// NewSeededJitter is reproducible across runs
func NewSeededJitter(seed uint64) *RandomJitter {
	return &RandomJitter{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntRange draws uniformly from [lo,hi]
func (j *RandomJitter) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	if j.rng == nil {
		return lo + rand.IntN(hi-lo+1)
	}
	return lo + j.rng.IntN(hi-lo+1)
}

// Midpoint always returns the middle of the range, rounding down
type Midpoint struct{}

// IntRange returns the midpoint of [lo,hi]
func (Midpoint) IntRange(lo, hi int) int {
	return lo + (hi-lo)/2
}

// Fixed returns lo when Low is set, else hi
type Fixed struct {
	Low bool
}

// IntRange returns lo or hi depending on Low
func (f Fixed) IntRange(lo, hi int) int {
	if f.Low {
		return lo
	}
	return hi
}
