// Package pipeline drives a tuning session: it pulls configurations from
// a search strategy, dispatches each to the kernel runtime, verifies the
// output against an optional reference, feeds the measurement back to the
// strategy, and ranks valid results on a leaderboard.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/logger"
	"github.com/samcharles93/kerntune/internal/search"
	"github.com/samcharles93/kerntune/internal/space"
)

// Options bound a tuning run. Zero values mean unbounded.
type Options struct {
	// MaxEvaluations stops the run after this many attempted
	// configurations.
	MaxEvaluations int
	// MaxDuration stops the run once this much wall-clock time has
	// elapsed. Checked once per iteration; an in-flight runtime call is
	// not interrupted.
	MaxDuration time.Duration
	// Comparer verifies outputs against the reference. Defaults to
	// kernel.AbsoluteComparer.
	Comparer kernel.Comparer
	// Logger defaults to logger.Default().
	Logger logger.Logger
}

// Summary reports how a run ended. A run stopped by its budget or by
// cancellation is a normal termination, not an error.
type Summary struct {
	Evaluated         int
	Valid             int
	CompileFailed     int
	LaunchFailed      int
	CorrectnessFailed int
	Stopped           bool
	Elapsed           time.Duration
}

// Pipeline owns one tuning session over a single device. The runtime
// represents exclusive device access, so configurations execute strictly
// sequentially.
type Pipeline struct {
	strategy search.Strategy
	runtime  kernel.Runtime
	kernel   *kernel.Kernel
	opts     Options
	board    *Leaderboard
	log      logger.Logger
}

func New(strategy search.Strategy, runtime kernel.Runtime, k *kernel.Kernel, opts Options) *Pipeline {
	if opts.Comparer == nil {
		opts.Comparer = kernel.AbsoluteComparer
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Pipeline{
		strategy: strategy,
		runtime:  runtime,
		kernel:   k,
		opts:     opts,
		board:    NewLeaderboard(),
		log:      log.With("kernel", k.Name, "strategy", strategy.Name()),
	}
}

// Leaderboard returns the ranked valid results accumulated so far. It is
// populated even when Run returns a fatal error.
func (p *Pipeline) Leaderboard() *Leaderboard {
	return p.board
}

// Run executes the session until the strategy terminates, a budget is
// exhausted, the context is cancelled, or a fatal runtime error occurs.
// Per-configuration compile, launch, and correctness failures never abort
// the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	finish := func() *Summary {
		summary.Elapsed = time.Since(start)
		return summary
	}

	reference, verify, err := p.establishReference(ctx)
	if err != nil {
		return finish(), err
	}

	for p.strategy.HasNext() {
		if ctx.Err() != nil {
			summary.Stopped = true
			p.log.Info("run cancelled", "evaluated", summary.Evaluated)
			return finish(), nil
		}
		if p.opts.MaxEvaluations > 0 && summary.Evaluated >= p.opts.MaxEvaluations {
			summary.Stopped = true
			p.log.Info("evaluation budget exhausted", "evaluated", summary.Evaluated)
			return finish(), nil
		}
		if p.opts.MaxDuration > 0 && time.Since(start) >= p.opts.MaxDuration {
			summary.Stopped = true
			p.log.Info("time budget exhausted", "elapsed", time.Since(start))
			return finish(), nil
		}

		cfg, err := p.strategy.Next()
		if errors.Is(err, space.ErrSpaceExhausted) {
			p.log.Debug("search space exhausted", "evaluated", summary.Evaluated)
			return finish(), nil
		}
		if err != nil {
			return finish(), fmt.Errorf("pipeline: next configuration: %w", err)
		}

		result, fatal := p.evaluate(ctx, cfg, reference, verify)
		if fatal != nil {
			return finish(), fmt.Errorf("pipeline: evaluate %s: %w", cfg, fatal)
		}
		summary.Evaluated++
		summary.count(result.Status)

		p.strategy.Record(cfg, result.ElapsedMS, result.Status == StatusValid)
		if result.Status == StatusValid {
			best, hadBest := p.board.Best()
			p.board.Insert(result)
			if !hadBest || result.ElapsedMS < best.ElapsedMS {
				p.log.Info("new best configuration", "config", cfg.Key(), "elapsed_ms", result.ElapsedMS)
			}
		} else {
			p.log.Debug("configuration rejected", "config", cfg.Key(), "status", string(result.Status), "detail", result.Detail)
		}
	}

	return finish(), nil
}

// evaluate runs one configuration through the runtime and wraps the
// outcome as a Result. The second return is non-nil only for errors that
// must abort the session.
func (p *Pipeline) evaluate(ctx context.Context, cfg space.Configuration, reference []kernel.Buffer, verify bool) (Result, error) {
	global, local, err := p.kernel.LaunchSizes(cfg)
	if err != nil {
		return Result{Config: cfg, Status: StatusLaunchFailed, Detail: err.Error()}, nil
	}

	m, err := p.runtime.CompileAndRun(ctx, kernel.Launch{
		Source: p.kernel.Source,
		Entry:  p.kernel.Entry,
		Global: global,
		Local:  local,
		Args:   p.kernel.Args,
		Config: cfg,
	})
	switch {
	case errors.Is(err, kernel.ErrCompile):
		return Result{Config: cfg, Status: StatusCompileFailed, Detail: err.Error()}, nil
	case errors.Is(err, kernel.ErrLaunch):
		return Result{Config: cfg, Status: StatusLaunchFailed, Detail: err.Error()}, nil
	case err != nil:
		return Result{}, err
	}

	if verify && !p.opts.Comparer(m.Outputs, reference, p.kernel.Tolerance) {
		return Result{
			Config:    cfg,
			ElapsedMS: m.ElapsedMS,
			Status:    StatusCorrectnessFailed,
			Detail:    fmt.Sprintf("output mismatch beyond tolerance %g", p.kernel.Tolerance),
		}, nil
	}

	return Result{Config: cfg, ElapsedMS: m.ElapsedMS, Status: StatusValid}, nil
}

// establishReference runs the ground-truth kernel once. A failing
// reference is fatal: without it no candidate can be verified.
func (p *Pipeline) establishReference(ctx context.Context) ([]kernel.Buffer, bool, error) {
	ref := p.kernel.Reference
	if ref == nil {
		return nil, false, nil
	}
	p.log.Debug("establishing reference output", "entry", ref.Entry)
	buffers, err := p.runtime.RunReference(ctx, kernel.Launch{
		Source: ref.Source,
		Entry:  ref.Entry,
		Global: ref.Global,
		Local:  ref.Local,
		Args:   p.kernel.Args,
	})
	if err != nil {
		return nil, false, fmt.Errorf("pipeline: reference kernel: %w", err)
	}
	return buffers, true, nil
}

func (s *Summary) count(status Status) {
	switch status {
	case StatusValid:
		s.Valid++
	case StatusCompileFailed:
		s.CompileFailed++
	case StatusLaunchFailed:
		s.LaunchFailed++
	case StatusCorrectnessFailed:
		s.CorrectnessFailed++
	}
}
