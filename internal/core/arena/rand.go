package arena

import (
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Rand is the random source the engine draws from. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedFromMatchID derives a seed so a named match replays the same spawns.
func SeedFromMatchID(id string) uint64 {
	return xxhash.Sum64String(id)
}

type entropyRand struct{}

func (entropyRand) Float64() float64 { return rand.Float64() }

// EntropyRand is backed by the runtime-seeded global generator.
func EntropyRand() Rand { return entropyRand{} }

// between returns an integer in [lo, hi], both inclusive.
func between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(math.Floor(r.Float64()*float64(hi-lo+1)))
}

// floatBetween returns a value in [lo, hi).
func floatBetween(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
