package generate

import (
	"math/rand"
	"time"
)

// ResolveSeed returns seed, or a time-based seed when it is 0
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// NewSeededRNG creates the generator that drives every random choice of a run.
// The seed must already be resolved so it can be reported for reproduction.
func NewSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
