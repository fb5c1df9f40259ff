package sim

import (
	"math"
	"math/rand"
)

// Source is the single seeded pseudo-random stream shared by every
// stochastic decision of a run: death-year draws, birth hazards, invitation
// and promotion coin flips, sex draws, and bootstrap age draws. One run owns
// exactly one Source; combined with ID-ordered population iteration this
// makes the whole history reproducible from the seed alone.
type Source struct {
	rng *rand.Rand
}

// NewSource constructs a deterministic source for the given seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Bernoulli draws true with probability p. Values outside [0,1] degenerate
// to always-false / always-true, matching the unvalidated-config contract.
func (s *Source) Bernoulli(p float64) bool {
	return s.rng.Float64() < p
}

// NormalRound draws from N(mean, sd) and rounds to the nearest integer.
func (s *Source) NormalRound(mean, sd float64) int {
	return int(math.Round(s.rng.NormFloat64()*sd + mean))
}

// IntBetween draws a uniform integer in [lo, hi] inclusive.
func (s *Source) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
