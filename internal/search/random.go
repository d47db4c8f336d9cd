package search

import (
	"fmt"
	"math/rand/v2"

	"github.com/samcharles93/kerntune/internal/space"
)

// maxUnseenAttempts bounds how many fresh samples a single Next call may
// reject because they were already proposed in this run. Exceeding it is
// treated as exhaustion of the valid subspace.
const maxUnseenAttempts = 1000

type RandomOptions struct {
	// MaxDraws is the number of configurations to propose.
	MaxDraws int
}

func DefaultRandomOptions() RandomOptions {
	return RandomOptions{MaxDraws: 64}
}

// Random proposes uniformly sampled valid configurations without
// replacement, up to MaxDraws. It is non-adaptive.
type Random struct {
	gen   *space.Generator
	rng   *rand.Rand
	opts  RandomOptions
	seen  map[string]struct{}
	drawn int
	done  bool
}

func NewRandom(gen *space.Generator, rng *rand.Rand, opts RandomOptions) *Random {
	if opts.MaxDraws <= 0 {
		opts.MaxDraws = DefaultRandomOptions().MaxDraws
	}
	return &Random{
		gen:  gen,
		rng:  rng,
		opts: opts,
		seen: make(map[string]struct{}),
	}
}

func (r *Random) Name() string { return string(KindRandom) }

func (r *Random) HasNext() bool {
	return !r.done && r.drawn < r.opts.MaxDraws
}

func (r *Random) Next() (space.Configuration, error) {
	if !r.HasNext() {
		return space.Configuration{}, space.ErrSpaceExhausted
	}
	for attempt := 0; attempt < maxUnseenAttempts; attempt++ {
		cfg, err := r.gen.Sample(r.rng)
		if err != nil {
			r.done = true
			return space.Configuration{}, err
		}
		key := cfg.Key()
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		r.drawn++
		return cfg, nil
	}
	r.done = true
	return space.Configuration{}, fmt.Errorf("%w: no unseen configuration after %d draws", space.ErrSpaceExhausted, maxUnseenAttempts)
}

// Record is a no-op: random search does not adapt to results.
func (r *Random) Record(space.Configuration, float64, bool) {}
