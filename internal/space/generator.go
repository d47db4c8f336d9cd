package space

import (
	"fmt"
	"math/rand/v2"
)

// maxSampleAttempts bounds rejection sampling: a single Sample call draws
// at most this many candidates before giving up with ErrSpaceExhausted.
const maxSampleAttempts = 1000

// Generator lazily enumerates the valid configurations of a Space: the
// Cartesian product of the parameter domains in declaration order (first
// declared parameter outermost, last declared varying fastest), filtered
// through the constraint set. A Generator is finite and not restartable;
// create a fresh one to enumerate again.
type Generator struct {
	space *Space
	names []string
	idx   []int
	done  bool
}

func NewGenerator(s *Space) *Generator {
	g := &Generator{
		space: s,
		names: s.names(),
		idx:   make([]int, s.Len()),
	}
	if s.Len() == 0 {
		g.done = true
	}
	return g
}

// Space returns the space this generator enumerates.
func (g *Generator) Space() *Space {
	return g.space
}

// Next returns the next valid configuration in enumeration order. The
// second return is false once the space is exhausted; exhaustion is
// terminal.
func (g *Generator) Next() (Configuration, bool) {
	for !g.done {
		cfg := g.at()
		g.advance()
		if g.space.Evaluate(cfg) {
			return cfg, true
		}
	}
	return Configuration{}, false
}

// Count walks the remaining odometer positions and returns how many valid
// configurations a fresh generator would produce. It does not consume the
// generator and does not materialize configurations beyond one scratch
// assignment at a time.
func (g *Generator) Count() uint64 {
	if g.space.Len() == 0 {
		return 0
	}
	if len(g.space.constraints) == 0 {
		return g.space.ProductSize()
	}
	idx := make([]int, g.space.Len())
	var total uint64
	for {
		if g.space.Evaluate(g.configAt(idx)) {
			total++
		}
		if !advanceIndex(idx, g.space.params) {
			return total
		}
	}
}

// Sample draws one valid configuration uniformly from the valid subspace
// by rejection sampling: uniform draws over the full product, re-drawn on
// constraint failure, bounded by maxSampleAttempts.
func (g *Generator) Sample(rng *rand.Rand) (Configuration, error) {
	if g.space.Len() == 0 {
		return Configuration{}, ErrSpaceExhausted
	}
	values := make([]int64, g.space.Len())
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		for i, p := range g.space.params {
			values[i] = p.Values[rng.IntN(len(p.Values))]
		}
		cfg := g.configFrom(values)
		if g.space.Evaluate(cfg) {
			return cfg, nil
		}
	}
	return Configuration{}, fmt.Errorf("%w after %d draws", ErrSpaceExhausted, maxSampleAttempts)
}

func (g *Generator) at() Configuration {
	return g.configAt(g.idx)
}

func (g *Generator) configAt(idx []int) Configuration {
	values := make([]int64, len(idx))
	for i, p := range g.space.params {
		values[i] = p.Values[idx[i]]
	}
	return g.configFrom(values)
}

func (g *Generator) configFrom(values []int64) Configuration {
	cfg, _ := NewConfiguration(g.names, values)
	return cfg
}

func (g *Generator) advance() {
	if !advanceIndex(g.idx, g.space.params) {
		g.done = true
	}
}

// advanceIndex steps the odometer with the last position varying fastest.
// It returns false when the odometer wraps, meaning enumeration finished.
func advanceIndex(idx []int, params []Parameter) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < len(params[i].Values) {
			return true
		}
		idx[i] = 0
	}
	return false
}
