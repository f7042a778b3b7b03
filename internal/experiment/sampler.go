package experiment

import (
	"math/rand/v2"
	"time"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

// Sampler draws the random parts of a trial.
type Sampler interface {
	Cue() models.Cue
	// Delay returns a duration drawn uniformly from [lo, hi].
	Delay(lo, hi time.Duration) time.Duration
}

// RandomSampler draws cues and delays from a seeded PCG source.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler returns a sampler seeded with seed. A zero seed picks a
// time-based one.
func NewRandomSampler(seed uint64) *RandomSampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomSampler) Cue() models.Cue {
	if s.rng.IntN(2) == 0 {
		return models.CueGo
	}
	return models.CueNoGo
}

func (s *RandomSampler) Delay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rng.Int64N(int64(hi-lo)+1))
}
