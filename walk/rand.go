package walk

import (
	"math/rand/v2"
	"time"
)

// NewSource returns a generator that owns its state; each worker needs its own.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WorkerSeed derives the seed of worker id from a base seed so workers never
// share a stream.
func WorkerSeed(base uint64, id int) uint64 {
	return base + uint64(id)*0x9e3779b97f4a7c15
}

// TimeSeed is the base seed used when none is configured.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
