package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Random is a deterministic pseudo-random number generator with helpers for
// the sampling operations the generators need. Two instances created with the
// same seed produce identical sequences.
type Random struct {
	rng  *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRandom creates a new Random instance with the given seed.
// If seed is 0, a cryptographically random seed is generated.
func NewRandom(seed int64) *Random {
	var actualSeed uint64
	if seed == 0 {
		actualSeed = generateRandomSeed()
	} else {
		actualSeed = uint64(seed)
	}

	return &Random{
		rng:  rand.New(rand.NewPCG(actualSeed, actualSeed^0xDEADBEEF)),
		seed: actualSeed,
	}
}

func generateRandomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Seed returns the seed used to initialize this RNG.
func (r *Random) Seed() uint64 {
	return r.seed
}

// Fork creates a new Random instance with a derived seed, for independent
// reproducible streams.
func (r *Random) Fork() *Random {
	r.mu.Lock()
	defer r.mu.Unlock()

	newSeed := r.rng.Uint64()
	return &Random{
		rng:  rand.New(rand.NewPCG(newSeed, newSeed^0xCAFEBABE)),
		seed: newSeed,
	}
}

// IntN returns a pseudo-random int in [0, n).
func (r *Random) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// IntRange returns a pseudo-random int in [min, max].
func (r *Random) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Float64Range returns a pseudo-random float64 in [min, max).
func (r *Random) Float64Range(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + r.Float64()*(max-min)
}

// NormalFloat64 returns a normally distributed float64 with mean 0, stddev 1.
func (r *Random) NormalFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.NormFloat64()
}

// NormalFloat64Range returns a normally distributed float64 with the given
// mean and standard deviation.
func (r *Random) NormalFloat64Range(mean, stddev float64) float64 {
	return mean + r.NormalFloat64()*stddev
}

// PickString returns a random element of the slice, or "" if empty.
func (r *Random) PickString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return slice[r.IntN(len(slice))]
}

// PickInt returns a random element of the slice, or 0 if empty.
func (r *Random) PickInt(slice []int) int {
	if len(slice) == 0 {
		return 0
	}
	return slice[r.IntN(len(slice))]
}

// WeightedIndex selects an index with probability proportional to weights[i].
// Weights must be non-negative; they are normalized internally. If all
// weights are zero the pick falls back to uniform. Returns -1 for an
// empty slice.
func (r *Random) WeightedIndex(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	if total <= 0 {
		return r.IntN(len(weights))
	}

	target := r.Float64() * total
	var cumulative float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if target < cumulative {
			return i
		}
	}

	return len(weights) - 1
}

// Poisson draws from a Poisson distribution with the given mean.
// Uses Knuth's multiplication method for small means and a normal
// approximation above that.
func (r *Random) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}

	if mean > 30 {
		v := math.Round(r.NormalFloat64Range(mean, math.Sqrt(mean)))
		if v < 0 {
			return 0
		}
		return int(v)
	}

	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= r.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// Round2 rounds to two decimal places, the precision of all emitted amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
