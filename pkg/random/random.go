// Package random provides the seeded randomness shared by the melody and chord generators
package random

import "math/rand/v2"

// Source is the randomness a generator consumes. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// New returns a deterministic PCG source for seed
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
