package tunespec

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/search"
	"github.com/samcharles93/kerntune/internal/space"
)

// Load reads and parses a session file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tunespec: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML session document. JSON documents parse too, being
// a YAML subset.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tunespec: parse: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ParseJSON decodes a JSON session document, as submitted to the HTTP
// API.
func ParseJSON(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tunespec: parse: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the structural invariants a session must satisfy
// before any space or kernel is built.
func (s *Spec) Validate() error {
	if s.Kernel.Entry == "" || len(s.Kernel.Global) == 0 {
		return ErrNoKernel
	}
	if len(s.Parameters) == 0 {
		return ErrNoParameters
	}
	for _, m := range s.Kernel.Modifiers {
		if m.Target != "global" && m.Target != "local" {
			return fmt.Errorf("%w: target %q", ErrBadModifier, m.Target)
		}
		if m.Op != "mul" && m.Op != "div" {
			return fmt.Errorf("%w: op %q", ErrBadModifier, m.Op)
		}
	}
	for _, a := range s.Kernel.Args {
		switch a.Kind {
		case "in", "out", "scalar":
		default:
			return fmt.Errorf("%w: kind %q", ErrBadArgument, a.Kind)
		}
	}
	if s.Budget.MaxDuration != "" {
		if _, err := time.ParseDuration(s.Budget.MaxDuration); err != nil {
			return fmt.Errorf("%w: max_duration: %v", ErrBadBudget, err)
		}
	}
	if _, err := search.ParseKind(s.Strategy.Name); err != nil {
		return err
	}
	return nil
}

// BuildSpace materializes the parameter space and its constraints.
func (s *Spec) BuildSpace() (*space.Space, error) {
	sp := space.New()
	for _, p := range s.Parameters {
		if err := sp.DeclareParameter(p.Name, p.Values); err != nil {
			return nil, err
		}
	}
	for _, raw := range s.Constraints {
		c, err := ParseConstraint(raw)
		if err != nil {
			return nil, err
		}
		if err := sp.DeclareConstraint(c); err != nil {
			return nil, err
		}
	}
	return sp, nil
}

// BuildKernel materializes the kernel declaration.
func (s *Spec) BuildKernel() (*kernel.Kernel, error) {
	k := &kernel.Kernel{
		Name:      s.Kernel.Name,
		Source:    s.Kernel.Source,
		Entry:     s.Kernel.Entry,
		Global:    append([]int64(nil), s.Kernel.Global...),
		Local:     append([]int64(nil), s.Kernel.Local...),
		Tolerance: s.Kernel.Tolerance,
	}
	for _, m := range s.Kernel.Modifiers {
		target := kernel.TargetGlobal
		if m.Target == "local" {
			target = kernel.TargetLocal
		}
		op := kernel.SizeMul
		if m.Op == "div" {
			op = kernel.SizeDiv
		}
		k.Modifiers = append(k.Modifiers, kernel.SizeModifier{
			Target: target,
			Op:     op,
			Param:  m.Param,
			Dim:    m.Dim,
		})
	}
	for _, a := range s.Kernel.Args {
		arg := kernel.Argument{Name: a.Name, Scalar: a.Scalar}
		switch a.Kind {
		case "in":
			arg.Kind = kernel.ArgBufferIn
		case "out":
			arg.Kind = kernel.ArgBufferOut
		case "scalar":
			arg.Kind = kernel.ArgScalar
		}
		if a.Kind != "scalar" {
			size := a.Size
			if size < len(a.Values) {
				size = len(a.Values)
			}
			arg.Data = make(kernel.Buffer, size)
			copy(arg.Data, a.Values)
		}
		k.Args = append(k.Args, arg)
	}
	if ref := s.Kernel.Reference; ref != nil {
		k.Reference = &kernel.Reference{
			Source: ref.Source,
			Entry:  ref.Entry,
			Global: append([]int64(nil), ref.Global...),
			Local:  append([]int64(nil), ref.Local...),
		}
	}
	return k, nil
}

// BuildStrategy resolves the strategy kind and its options.
func (s *Spec) BuildStrategy() (search.Kind, search.Options, error) {
	kind, err := search.ParseKind(s.Strategy.Name)
	if err != nil {
		return "", search.Options{}, err
	}
	opts := search.Options{
		Random: search.RandomOptions{MaxDraws: s.Strategy.MaxDraws},
		Annealing: search.AnnealingOptions{
			MaxIterations:    s.Strategy.Anneal.MaxIterations,
			Temperature:      s.Strategy.Anneal.Temperature,
			CoolingFactor:    s.Strategy.Anneal.Cooling,
			TemperatureFloor: s.Strategy.Anneal.Floor,
		},
		Swarm: search.SwarmOptions{
			Particles:      s.Strategy.Swarm.Particles,
			MaxGenerations: s.Strategy.Swarm.MaxGenerations,
			Stagnation:     s.Strategy.Swarm.Stagnation,
			Inertia:        s.Strategy.Swarm.Inertia,
			Cognitive:      s.Strategy.Swarm.Cognitive,
			Social:         s.Strategy.Swarm.Social,
		},
	}
	return kind, opts, nil
}

// BudgetDuration returns the parsed wall-clock budget, zero when unset.
func (s *Spec) BudgetDuration() time.Duration {
	if s.Budget.MaxDuration == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Budget.MaxDuration)
	if err != nil {
		return 0
	}
	return d
}
