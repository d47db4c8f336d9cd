// Package space models the tunable configuration space of a kernel: named
// parameters with finite integer domains, algebraic constraints between
// them, and the generation and sampling of valid configurations.
package space

import "fmt"

// Parameter is a named tunable with an ordered, finite domain of candidate
// values. Immutable once declared.
type Parameter struct {
	Name   string
	Values []int64
}

// Space holds the declared parameters and constraints of a tuning session.
// It is populated during session setup and treated as read-only afterwards.
type Space struct {
	params      []Parameter
	index       map[string]int
	constraints []Constraint
}

func New() *Space {
	return &Space{
		index: make(map[string]int),
	}
}

// DeclareParameter adds a parameter with the given candidate values.
// Declaration order is significant: it fixes the enumeration order of the
// configuration space.
func (s *Space) DeclareParameter(name string, values []int64) error {
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, name)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyDomain, name)
	}
	domain := make([]int64, len(values))
	copy(domain, values)
	s.index[name] = len(s.params)
	s.params = append(s.params, Parameter{Name: name, Values: domain})
	return nil
}

// DeclareConstraint registers a constraint. Every parameter the constraint
// references must already be declared.
func (s *Space) DeclareConstraint(c Constraint) error {
	for _, name := range c.Params() {
		if _, ok := s.index[name]; !ok {
			return fmt.Errorf("%w: %q in constraint %s", ErrUnknownParameter, name, c)
		}
	}
	s.constraints = append(s.constraints, c)
	return nil
}

// Parameters returns the declared parameters in declaration order. The
// returned slice is shared and must not be modified.
func (s *Space) Parameters() []Parameter {
	return s.params
}

// Domain returns the candidate values of a parameter.
func (s *Space) Domain(name string) ([]int64, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.params[i].Values, true
}

// Len returns the number of declared parameters.
func (s *Space) Len() int {
	return len(s.params)
}

// ProductSize returns the size of the unconstrained Cartesian product.
func (s *Space) ProductSize() uint64 {
	if len(s.params) == 0 {
		return 0
	}
	total := uint64(1)
	for _, p := range s.params {
		total *= uint64(len(p.Values))
	}
	return total
}

// Evaluate reports whether cfg satisfies every registered constraint.
// Evaluation is conjunctive and short-circuits on the first failure.
func (s *Space) Evaluate(cfg Configuration) bool {
	for _, c := range s.constraints {
		if !c.Holds(cfg) {
			return false
		}
	}
	return true
}

// Constraints returns the registered constraints. The returned slice is
// shared and must not be modified.
func (s *Space) Constraints() []Constraint {
	return s.constraints
}

func (s *Space) names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}
