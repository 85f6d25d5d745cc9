package strategy

import (
	"math/rand/v2"
	"time"
)

// Random is the only source of randomness the engine uses.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRandom returns a PCG-backed source seeded from seed, or from the clock
// when seed is 0.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
