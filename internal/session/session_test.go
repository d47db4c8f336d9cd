package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/logger"
	"github.com/samcharles93/kerntune/internal/space"
	"github.com/samcharles93/kerntune/pkg/tunespec"
)

func testSpec() *tunespec.Spec {
	return &tunespec.Spec{
		Kernel: tunespec.KernelSpec{
			Name:   "copy",
			Entry:  "copy_fast",
			Global: []int64{1024},
			Local:  []int64{64},
		},
		Parameters: []tunespec.ParameterSpec{
			{Name: "BS", Values: []int64{1, 2, 4}},
			{Name: "WPT", Values: []int64{1, 2}},
		},
		Constraints: []string{"BS %% WPT"},
		Strategy:    tunespec.StrategySpec{Name: "full"},
		Seed:        9,
	}
}

func TestNewAndRun(t *testing.T) {
	spec := testSpec()
	runtime := &kernel.SimRuntime{
		Cost: func(cfg space.Configuration) float64 {
			bs, _ := cfg.Value("BS")
			wpt, _ := cfg.Value("WPT")
			return 100.0 / float64(bs*wpt)
		},
	}
	sess, err := New(spec, runtime, logger.Pretty(io.Discard, slog.LevelError))
	if err != nil {
		t.Fatal(err)
	}
	if sess.Seed != 9 {
		t.Errorf("seed = %d, want 9", sess.Seed)
	}
	if sess.Strategy.Name() != "full" {
		t.Errorf("strategy = %q", sess.Strategy.Name())
	}

	summary, results, err := sess.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// BS %% WPT admits (1,1), (2,1), (2,2), (4,1), (4,2).
	if summary.Evaluated != 5 || summary.Valid != 5 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}
	best := results[0]
	bs, _ := best.Config.Value("BS")
	wpt, _ := best.Config.Value("WPT")
	if bs != 4 || wpt != 2 {
		t.Errorf("best = %s", best.Config)
	}
	if best.ElapsedMS != 12.5 {
		t.Errorf("best elapsed = %v", best.ElapsedMS)
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	spec := testSpec()
	spec.Constraints = []string{"BS %% MISSING"}
	if _, err := New(spec, &kernel.SimRuntime{}, logger.Pretty(io.Discard, slog.LevelError)); err == nil {
		t.Fatal("expected error for unknown constraint parameter")
	}

	spec = testSpec()
	spec.Strategy.Name = "tabu"
	if _, err := New(spec, &kernel.SimRuntime{}, logger.Pretty(io.Discard, slog.LevelError)); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestResolveSeed(t *testing.T) {
	spec := testSpec()
	if got := ResolveSeed(spec); got != 9 {
		t.Errorf("seed = %d, want 9", got)
	}
	spec.Seed = 0
	if got := ResolveSeed(spec); got == 0 {
		t.Error("expected clock-derived seed")
	}
}
