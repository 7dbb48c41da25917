// Package sequence turns a set of allowed pitches into the ordered list of
// notes drawn on one staff.
//
// Two modes are supported. [Sequential] cycles through the allowed pitches
// in the order given. [Random] draws without replacement; when the pool is
// smaller than the staff it draws successive without-replacement batches and
// concatenates them, so a pitch repeats only across batch boundaries.
package sequence

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// Mode selects how a sequence is drawn from the allowed pitches.
type Mode string

const (
	Sequential Mode = "sequential"
	Random     Mode = "random"
)

// Modes lists the supported modes.
var Modes = []Mode{Sequential, Random}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: sequential, random)", s)
	}
	return m, nil
}

// NewSource returns a seeded random source. Sheets generated from the same
// seed and options are identical.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Build returns exactly count pitches drawn from allowed according to mode.
// Every returned pitch is a member of allowed. rng is only used in Random
// mode; a nil rng draws from an unseeded source.
//
// It fails with EMPTY_PITCH_SET when allowed is empty and INVALID_INPUT when
// count is not positive.
func Build(allowed []pitch.Name, count int, mode Mode, rng *rand.Rand) ([]pitch.Name, error) {
	if len(allowed) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyPitchSet, "select at least one pitch")
	}
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "note count must be positive, got %d", count)
	}

	switch mode {
	case Sequential:
		return cycle(allowed, count), nil
	case Random:
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		return batches(allowed, count, rng), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q", mode)
	}
}

// cycle repeats allowed whole as many times as fits, then appends the prefix
// needed to reach count.
func cycle(allowed []pitch.Name, count int) []pitch.Name {
	out := make([]pitch.Name, 0, count)
	for len(out) < count {
		need := min(count-len(out), len(allowed))
		out = append(out, allowed[:need]...)
	}
	return out
}

// batches concatenates without-replacement samples, each sized to the
// remaining need and capped at the pool size. When the pool covers count the
// result is a single true sample with no repeats.
func batches(allowed []pitch.Name, count int, rng *rand.Rand) []pitch.Name {
	out := make([]pitch.Name, 0, count)
	for len(out) < count {
		need := min(count-len(out), len(allowed))
		out = append(out, sample(allowed, need, rng)...)
	}
	return out
}

// sample draws k distinct positions of pool uniformly at random.
func sample(pool []pitch.Name, k int, rng *rand.Rand) []pitch.Name {
	out := make([]pitch.Name, k)
	for i, j := range rng.Perm(len(pool))[:k] {
		out[i] = pool[j]
	}
	return out
}
