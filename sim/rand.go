package sim

import (
	"math/rand/v2"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// NewRand returns a PCG generator for seed. Seed 0 picks a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DrawSource draws winning wagers from rng, making a seeded run repeatable.
func DrawSource(rng *rand.Rand) func() wager.Wager {
	return func() wager.Wager { return wager.RandomWith(rng.IntN) }
}
