package kernel

import (
	"context"
	"errors"
	"math"

	"github.com/samcharles93/kerntune/internal/space"
)

var (
	// ErrCompile marks a per-configuration compilation failure. The
	// pipeline records it and continues.
	ErrCompile = errors.New("kernel: compilation failed")
	// ErrLaunch marks a per-configuration launch failure. The pipeline
	// records it and continues.
	ErrLaunch = errors.New("kernel: launch failed")
)

// Launch is one fully resolved kernel invocation: source and entry point,
// concrete global/local sizes, bound arguments, and the configuration the
// kernel is being compiled under (its values are exposed to the kernel as
// compile-time definitions by the runtime).
type Launch struct {
	Source string
	Entry  string
	Global []int64
	Local  []int64
	Args   []Argument
	Config space.Configuration
}

// Measurement is the outcome of one successful compile+launch cycle.
type Measurement struct {
	ElapsedMS float64
	Outputs   []Buffer
}

// Runtime is the external collaborator that owns the compute device.
// Implementations wrap a real toolchain (OpenCL, CUDA) or a simulator.
// Errors wrapping ErrCompile or ErrLaunch are per-configuration failures;
// any other error is fatal to the tuning session.
type Runtime interface {
	// CompileAndRun compiles the kernel under launch.Config, executes it,
	// and returns the measured execution time and the output buffers.
	CompileAndRun(ctx context.Context, launch Launch) (Measurement, error)

	// RunReference executes the ground-truth kernel once and returns its
	// output buffers.
	RunReference(ctx context.Context, launch Launch) ([]Buffer, error)
}

// Comparer decides whether measured outputs match the reference within a
// tolerance. The tuner only consumes the boolean verdict.
type Comparer func(got, want []Buffer, tolerance float64) bool

// AbsoluteComparer compares element-wise absolute differences against the
// tolerance. Mismatched buffer counts or lengths fail the comparison.
func AbsoluteComparer(got, want []Buffer, tolerance float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if len(got[i]) != len(want[i]) {
			return false
		}
		for j := range got[i] {
			if math.Abs(float64(got[i][j]-want[i][j])) > tolerance {
				return false
			}
		}
	}
	return true
}
