package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/search"
	"github.com/samcharles93/kerntune/internal/space"
)

func blockSpace(t *testing.T) *space.Space {
	t.Helper()
	s := space.New()
	if err := s.DeclareParameter("BS", []int64{1, 2, 4}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	return s
}

func fullStrategy(t *testing.T, s *space.Space) search.Strategy {
	t.Helper()
	return search.NewFull(space.NewGenerator(s))
}

// inverseCost reproduces the canonical scenario: elapsed = 10/BS.
func inverseCost(cfg space.Configuration) float64 {
	bs, _ := cfg.Value("BS")
	return 10.0 / float64(bs)
}

func TestRunFullSearchRanksBest(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{Cost: inverseCost}

	p := New(fullStrategy(t, s), rt, k, Options{})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Evaluated != 3 || summary.Valid != 3 {
		t.Fatalf("summary = %+v, want 3 valid of 3", summary)
	}
	if p.Leaderboard().Len() != 3 {
		t.Fatalf("leaderboard has %d entries, want 3", p.Leaderboard().Len())
	}

	best, ok := p.Leaderboard().Best()
	if !ok {
		t.Fatal("no best result")
	}
	if bs, _ := best.Config.Value("BS"); bs != 4 {
		t.Fatalf("best BS = %d, want 4", bs)
	}
	if best.ElapsedMS != 2.5 {
		t.Fatalf("best elapsed = %g, want 2.5", best.ElapsedMS)
	}
}

func TestRunSurvivesCompileFailures(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{
		CompileFails: func(space.Configuration) bool { return true },
	}

	p := New(fullStrategy(t, s), rt, k, Options{})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("compile failures must not be fatal: %v", err)
	}
	if summary.Evaluated != 3 || summary.CompileFailed != 3 {
		t.Fatalf("summary = %+v, want 3 compile failures of 3", summary)
	}
	if p.Leaderboard().Len() != 0 {
		t.Fatal("failed configurations reached the leaderboard")
	}
}

func TestRunMixedFailuresContinue(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{
		Cost: inverseCost,
		LaunchFails: func(cfg space.Configuration) bool {
			bs, _ := cfg.Value("BS")
			return bs == 2
		},
	}

	p := New(fullStrategy(t, s), rt, k, Options{})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Valid != 2 || summary.LaunchFailed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

type fatalRuntime struct{}

func (fatalRuntime) CompileAndRun(context.Context, kernel.Launch) (kernel.Measurement, error) {
	return kernel.Measurement{}, errors.New("device disconnected")
}

func (fatalRuntime) RunReference(context.Context, kernel.Launch) ([]kernel.Buffer, error) {
	return nil, nil
}

func TestRunUnknownRuntimeErrorIsFatal(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}

	p := New(fullStrategy(t, s), fatalRuntime{}, k, Options{})
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("unknown runtime error did not abort the session")
	}
}

func TestRunCorrectnessVerification(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{
		Name:   "copy",
		Entry:  "copy",
		Global: []int64{4},
		Local:  []int64{1},
		Args: []kernel.Argument{
			{Name: "out", Kind: kernel.ArgBufferOut, Data: make(kernel.Buffer, 4)},
		},
		Reference: &kernel.Reference{Entry: "copy_ref", Global: []int64{4}, Local: []int64{1}},
		Tolerance: 1e-4,
	}
	rt := &kernel.SimRuntime{
		Cost: inverseCost,
		Compute: func(launch kernel.Launch) []kernel.Buffer {
			// The reference and BS=1 produce ones; larger blocks drift.
			v := float32(1)
			if bs, ok := launch.Config.Value("BS"); ok && bs > 1 {
				v = 2
			}
			return []kernel.Buffer{{v, v, v, v}}
		},
	}

	p := New(fullStrategy(t, s), rt, k, Options{})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Valid != 1 || summary.CorrectnessFailed != 2 {
		t.Fatalf("summary = %+v, want 1 valid and 2 correctness failures", summary)
	}
	best, ok := p.Leaderboard().Best()
	if !ok {
		t.Fatal("no valid result ranked")
	}
	if bs, _ := best.Config.Value("BS"); bs != 1 {
		t.Fatalf("best BS = %d, want the verified configuration", bs)
	}
}

func TestRunEvaluationBudget(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{Cost: inverseCost}

	p := New(fullStrategy(t, s), rt, k, Options{MaxEvaluations: 2})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("budget stop must not error: %v", err)
	}
	if !summary.Stopped || summary.Evaluated != 2 {
		t.Fatalf("summary = %+v, want stopped after 2", summary)
	}
	if p.Leaderboard().Len() != 2 {
		t.Fatalf("leaderboard has %d entries, want the 2 evaluated", p.Leaderboard().Len())
	}
}

func TestRunCancellation(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{Cost: inverseCost}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(fullStrategy(t, s), rt, k, Options{})
	summary, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("cancellation must not error: %v", err)
	}
	if !summary.Stopped || summary.Evaluated != 0 {
		t.Fatalf("summary = %+v, want immediate stop", summary)
	}
}

func TestRunTimeBudget(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{Cost: inverseCost}

	p := New(fullStrategy(t, s), rt, k, Options{MaxDuration: time.Nanosecond})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("time budget stop must not error: %v", err)
	}
	if !summary.Stopped {
		t.Fatalf("summary = %+v, want stopped", summary)
	}
}

func TestRunWithAdaptiveStrategy(t *testing.T) {
	s := blockSpace(t)
	k := &kernel.Kernel{Name: "copy", Entry: "copy", Global: []int64{16}, Local: []int64{1}}
	rt := &kernel.SimRuntime{Cost: inverseCost}

	rng := rand.New(rand.NewPCG(5, 9))
	st := search.NewAnnealing(space.NewGenerator(s), rng, search.AnnealingOptions{MaxIterations: 32})
	p := New(st, rt, k, Options{})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Evaluated == 0 {
		t.Fatal("annealing evaluated nothing")
	}
	best, ok := p.Leaderboard().Best()
	if !ok {
		t.Fatal("no result ranked")
	}
	if bs, _ := best.Config.Value("BS"); bs != 4 {
		t.Fatalf("annealing on a 3-point space missed the optimum: BS=%d", bs)
	}
}
