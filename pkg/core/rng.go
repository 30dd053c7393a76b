package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// FillUniform fills buf with independent samples from [0, states).
func FillUniform(r *rand.Rand, buf []uint8, states uint8) {
	if states == 0 {
		clear(buf)
		return
	}
	n := int(states)
	for i := range buf {
		buf[i] = uint8(r.IntN(n))
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
