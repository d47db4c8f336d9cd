// Package kernel models the tunable compute kernel and the contract the
// tuner requires from an external kernel runtime: compile a kernel under
// a configuration, launch it with concrete global/local sizes, and report
// the measured execution time and output buffers.
package kernel

import (
	"fmt"

	"github.com/samcharles93/kerntune/internal/space"
)

// Buffer is a flat device buffer image on the host side.
type Buffer []float32

// ArgKind classifies a bound kernel argument.
type ArgKind int

const (
	ArgBufferIn ArgKind = iota
	ArgBufferOut
	ArgScalar
)

// Argument is one bound kernel argument. Input buffers carry their initial
// contents; output buffers carry their size (len of Data) and are returned
// populated by the runtime; scalars carry a single value.
type Argument struct {
	Name   string
	Kind   ArgKind
	Data   Buffer
	Scalar int64
}

// Target selects which launch dimension vector a size modifier applies to.
type Target int

const (
	TargetGlobal Target = iota
	TargetLocal
)

// SizeOp is the arithmetic a size modifier performs.
type SizeOp int

const (
	SizeMul SizeOp = iota
	SizeDiv
)

// SizeModifier scales one launch dimension by a parameter's value. Divide
// rounds up so the launch grid always covers the base size.
type SizeModifier struct {
	Target Target
	Op     SizeOp
	Param  string
	Dim    int
}

// Reference is the ground-truth kernel run once to establish expected
// output buffers.
type Reference struct {
	Source string
	Entry  string
	Global []int64
	Local  []int64
}

// Kernel is a tunable kernel: source, entry point, base launch sizes, the
// parameter-driven size modifiers, bound arguments, and an optional
// reference for correctness verification.
type Kernel struct {
	Name      string
	Source    string
	Entry     string
	Global    []int64
	Local     []int64
	Modifiers []SizeModifier
	Args      []Argument
	Reference *Reference
	Tolerance float64
}

// LaunchSizes computes the concrete global and local sizes for a
// configuration by applying the modifiers to the base sizes.
func (k *Kernel) LaunchSizes(cfg space.Configuration) (global, local []int64, err error) {
	global = append([]int64(nil), k.Global...)
	local = append([]int64(nil), k.Local...)
	for _, m := range k.Modifiers {
		dims := global
		if m.Target == TargetLocal {
			dims = local
		}
		if m.Dim < 0 || m.Dim >= len(dims) {
			return nil, nil, fmt.Errorf("kernel %s: size modifier dimension %d out of range", k.Name, m.Dim)
		}
		v, ok := cfg.Value(m.Param)
		if !ok {
			return nil, nil, fmt.Errorf("kernel %s: size modifier references unassigned parameter %q", k.Name, m.Param)
		}
		if v <= 0 {
			return nil, nil, fmt.Errorf("kernel %s: parameter %q = %d cannot scale a launch size", k.Name, m.Param, v)
		}
		switch m.Op {
		case SizeMul:
			dims[m.Dim] *= v
		case SizeDiv:
			dims[m.Dim] = (dims[m.Dim] + v - 1) / v
		}
	}
	return global, local, nil
}
