package search

import "github.com/samcharles93/kerntune/internal/space"

// Full proposes every valid configuration in enumeration order exactly
// once. It is non-adaptive and serves as the reference strategy for the
// heuristic variants.
type Full struct {
	gen     *space.Generator
	pending space.Configuration
	has     bool
}

func NewFull(gen *space.Generator) *Full {
	f := &Full{gen: gen}
	f.pending, f.has = gen.Next()
	return f
}

func (f *Full) Name() string { return string(KindFull) }

func (f *Full) HasNext() bool { return f.has }

func (f *Full) Next() (space.Configuration, error) {
	if !f.has {
		return space.Configuration{}, space.ErrSpaceExhausted
	}
	cfg := f.pending
	f.pending, f.has = f.gen.Next()
	return cfg, nil
}

// Record is a no-op: exhaustive search does not adapt to results.
func (f *Full) Record(space.Configuration, float64, bool) {}
