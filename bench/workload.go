package bench

import (
	"math/rand/v2"
)

// NewRand returns the generator a benchmark run draws its workload from.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws n readings uniformly from [lo, hi).
func Generate(rng *rand.Rand, n int, lo, hi float64) []float64 {
	readings := make([]float64, n)
	for i := range readings {
		readings[i] = lo + rng.Float64()*(hi-lo)
	}
	return readings
}
