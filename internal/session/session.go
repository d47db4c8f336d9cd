// Package session assembles a tuning run from a parsed session file.
// The CLI and the HTTP API both build runs through it.
package session

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/logger"
	"github.com/samcharles93/kerntune/internal/pipeline"
	"github.com/samcharles93/kerntune/internal/search"
	"github.com/samcharles93/kerntune/internal/space"
	"github.com/samcharles93/kerntune/pkg/tunespec"
)

// Session is one fully assembled tuning run: space, kernel, strategy,
// and pipeline, ready for Run.
type Session struct {
	Space    *space.Space
	Kernel   *kernel.Kernel
	Strategy search.Strategy
	Seed     uint64

	pipe *pipeline.Pipeline
}

// ResolveSeed returns the session's seed, or one derived from the clock
// when the session file leaves it zero.
func ResolveSeed(spec *tunespec.Spec) uint64 {
	if spec.Seed != 0 {
		return spec.Seed
	}
	return uint64(time.Now().UnixNano())
}

// New builds a session from a validated spec. The runtime decides where
// configurations execute. A zero spec seed derives one from the clock.
func New(spec *tunespec.Spec, runtime kernel.Runtime, log logger.Logger) (*Session, error) {
	sp, err := spec.BuildSpace()
	if err != nil {
		return nil, err
	}
	k, err := spec.BuildKernel()
	if err != nil {
		return nil, err
	}
	kind, opts, err := spec.BuildStrategy()
	if err != nil {
		return nil, err
	}
	seed := ResolveSeed(spec)
	rng := rand.New(rand.NewPCG(seed, seed<<1|1))
	strategy, err := search.New(kind, space.NewGenerator(sp), rng, opts)
	if err != nil {
		return nil, err
	}
	pipe := pipeline.New(strategy, runtime, k, pipeline.Options{
		MaxEvaluations: spec.Budget.MaxEvaluations,
		MaxDuration:    spec.BudgetDuration(),
		Logger:         log,
	})
	return &Session{
		Space:    sp,
		Kernel:   k,
		Strategy: strategy,
		Seed:     seed,
		pipe:     pipe,
	}, nil
}

// Run executes the session and returns its summary and the ranked valid
// results, best first.
func (s *Session) Run(ctx context.Context) (*pipeline.Summary, []pipeline.Result, error) {
	summary, err := s.pipe.Run(ctx)
	if err != nil {
		return summary, nil, err
	}
	return summary, s.pipe.Leaderboard().Results(), nil
}
