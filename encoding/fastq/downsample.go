package fastq

import (
	"math"

	farm "github.com/dgryski/go-farm"
	"github.com/pkg/errors"
)

// Downsampler selects a deterministic fraction of read pairs.  The decision
// depends only on the read name and the seed, so both mates of a pair, and
// the same pair in a rerun, are always kept or dropped together regardless of
// input order.
type Downsampler struct {
	rate  float64
	seed  uint64
	limit uint64
}

// NewDownsampler creates a Downsampler that keeps about rate of all pairs.
// rate must be in [0, 1].
func NewDownsampler(rate float64, seed uint64) (*Downsampler, error) {
	if !(rate >= 0.0 && rate <= 1.0) {
		return nil, errors.Errorf("rate must be between 0 and 1 (inclusive), got %v", rate)
	}
	d := &Downsampler{rate: rate, seed: seed}
	if rate < 1.0 {
		d.limit = uint64(rate * math.MaxUint64)
	}
	return d, nil
}

// Keep returns true iff the pair with the given read name should be kept.
func (d *Downsampler) Keep(name string) bool {
	switch d.rate {
	case 1.0:
		return true
	case 0.0:
		return false
	}
	return farm.Hash64WithSeed([]byte(name), d.seed) < d.limit
}
