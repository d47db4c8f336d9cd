package kernel

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/samcharles93/kerntune/internal/space"
)

// SimRuntime is an in-process Runtime with a deterministic cost model.
// It stands in for a real device runtime in the CLI demo, the HTTP
// server, and tests: no compilation happens, and the "execution time" of
// a configuration comes from the Cost function.
type SimRuntime struct {
	// Cost maps a configuration to its simulated execution time in
	// milliseconds. Defaults to TerrainCost(0).
	Cost func(cfg space.Configuration) float64

	// CompileFails and LaunchFails inject per-configuration failures.
	CompileFails func(cfg space.Configuration) bool
	LaunchFails  func(cfg space.Configuration) bool

	// Compute synthesizes output buffers for a launch. When nil the
	// output buffers are returned zero-filled at their declared sizes.
	Compute func(launch Launch) []Buffer
}

func (r *SimRuntime) CompileAndRun(ctx context.Context, launch Launch) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}
	if r.CompileFails != nil && r.CompileFails(launch.Config) {
		return Measurement{}, fmt.Errorf("%w: simulated for %s", ErrCompile, launch.Config)
	}
	if r.LaunchFails != nil && r.LaunchFails(launch.Config) {
		return Measurement{}, fmt.Errorf("%w: simulated for %s", ErrLaunch, launch.Config)
	}
	return Measurement{
		ElapsedMS: r.cost(launch.Config),
		Outputs:   r.outputs(launch),
	}, nil
}

func (r *SimRuntime) RunReference(ctx context.Context, launch Launch) ([]Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.outputs(launch), nil
}

func (r *SimRuntime) cost(cfg space.Configuration) float64 {
	if r.Cost != nil {
		return r.Cost(cfg)
	}
	return TerrainCost(0)(cfg)
}

func (r *SimRuntime) outputs(launch Launch) []Buffer {
	if r.Compute != nil {
		return r.Compute(launch)
	}
	var out []Buffer
	for _, arg := range launch.Args {
		if arg.Kind == ArgBufferOut {
			out = append(out, make(Buffer, len(arg.Data)))
		}
	}
	return out
}

// TerrainCost builds a deterministic pseudo-random cost surface over
// configurations: the same configuration always costs the same, nearby
// seeds give unrelated surfaces. Costs land in roughly [1, 21) ms, which
// gives the demo searches a landscape with real minima to find.
func TerrainCost(seed uint64) func(cfg space.Configuration) float64 {
	return func(cfg space.Configuration) float64 {
		h := fnv.New64a()
		fmt.Fprintf(h, "%d|%s", seed, cfg.Key())
		raw := h.Sum64()
		return 1.0 + float64(raw%20000)/1000.0
	}
}
