// Package search implements the configuration search strategies of the
// tuner: exhaustive, random, simulated annealing, and particle swarm.
// All strategies share one contract: propose configurations one at a time
// and observe the measured execution time of each proposal.
package search

import (
	"fmt"
	"math/rand/v2"

	"github.com/samcharles93/kerntune/internal/space"
)

// Strategy proposes configurations to evaluate and observes results.
// Calls are strictly sequential: Next is never invoked while a Record for
// the previous proposal is outstanding. Once HasNext returns false it
// stays false.
type Strategy interface {
	Name() string

	// HasNext reports whether the strategy intends to propose another
	// configuration. It is optimistic: Next may still fail with
	// space.ErrSpaceExhausted when sampling cannot produce a fresh valid
	// candidate, which callers treat as normal termination.
	HasNext() bool

	// Next returns the next configuration to evaluate.
	Next() (space.Configuration, error)

	// Record feeds back the measured execution time of a previously
	// proposed configuration. valid is false when the configuration
	// failed to compile, launch, or verify; adaptive strategies treat
	// such results as infinitely slow.
	Record(cfg space.Configuration, elapsedMS float64, valid bool)
}

// Kind names a search strategy variant.
type Kind string

const (
	KindFull      Kind = "full"
	KindRandom    Kind = "random"
	KindAnnealing Kind = "anneal"
	KindSwarm     Kind = "swarm"
)

// Options collects the per-variant settings. Only the fields of the
// selected variant are consulted.
type Options struct {
	Random    RandomOptions
	Annealing AnnealingOptions
	Swarm     SwarmOptions
}

// New constructs the strategy named by kind over the given generator.
// The strategy takes ownership of the generator and of rng.
func New(kind Kind, gen *space.Generator, rng *rand.Rand, opts Options) (Strategy, error) {
	switch kind {
	case KindFull:
		return NewFull(gen), nil
	case KindRandom:
		return NewRandom(gen, rng, opts.Random), nil
	case KindAnnealing:
		return NewAnnealing(gen, rng, opts.Annealing), nil
	case KindSwarm:
		return NewSwarm(gen, rng, opts.Swarm), nil
	default:
		return nil, fmt.Errorf("search: unknown strategy %q (expected full, random, anneal, or swarm)", kind)
	}
}

// ParseKind normalizes a strategy name.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindFull, KindRandom, KindAnnealing, KindSwarm:
		return Kind(name), nil
	case "":
		return KindFull, nil
	default:
		return "", fmt.Errorf("search: unknown strategy %q (expected full, random, anneal, or swarm)", name)
	}
}
