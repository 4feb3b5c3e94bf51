package game

import "math/rand/v2"

// RNG is the random source handed to randomised page setup (card shuffle,
// hunt placement). Sessions own their RNG; it is only used under the
// session lock.
type RNG interface {
	IntN(n int) int
}

// NewRNG returns a PCG-backed RNG. A zero seed picks a random one.
func NewRNG(seed uint64) RNG {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shuffle is a Fisher-Yates shuffle driven by rng.
func shuffle[T any](rng RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
