// Package tunespec implements the kerntune session file format.
//
// A session file declares a kernel, its tunable parameters, constraint
// expressions between them, the search strategy, and the run budget, in
// YAML or JSON. It describes the tuning session only and never implies
// which runtime executes it.
package tunespec

// Spec is one complete tuning session declaration.
type Spec struct {
	Kernel      KernelSpec      `yaml:"kernel" json:"kernel"`
	Parameters  []ParameterSpec `yaml:"parameters" json:"parameters"`
	Constraints []string        `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Strategy    StrategySpec    `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Budget      BudgetSpec      `yaml:"budget,omitempty" json:"budget,omitempty"`

	// Seed fixes the random source of the stochastic strategies. Zero
	// means derive one from the clock.
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// ParameterSpec is one tunable parameter with its candidate values.
type ParameterSpec struct {
	Name   string  `yaml:"name" json:"name"`
	Values []int64 `yaml:"values" json:"values"`
}

// KernelSpec declares the kernel under tuning.
type KernelSpec struct {
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Entry  string `yaml:"entry" json:"entry"`

	Global []int64 `yaml:"global" json:"global"`
	Local  []int64 `yaml:"local" json:"local"`

	Modifiers []ModifierSpec `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Args      []ArgSpec      `yaml:"args,omitempty" json:"args,omitempty"`

	Reference *ReferenceSpec `yaml:"reference,omitempty" json:"reference,omitempty"`
	Tolerance float64        `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
}

// ModifierSpec scales one launch dimension by a parameter value.
type ModifierSpec struct {
	Target string `yaml:"target" json:"target"` // global or local
	Op     string `yaml:"op" json:"op"`         // mul or div
	Param  string `yaml:"param" json:"param"`
	Dim    int    `yaml:"dim" json:"dim"`
}

// ArgSpec is one bound kernel argument.
type ArgSpec struct {
	Name   string    `yaml:"name" json:"name"`
	Kind   string    `yaml:"kind" json:"kind"` // in, out, or scalar
	Size   int       `yaml:"size,omitempty" json:"size,omitempty"`
	Values []float32 `yaml:"values,omitempty" json:"values,omitempty"`
	Scalar int64     `yaml:"scalar,omitempty" json:"scalar,omitempty"`
}

// ReferenceSpec declares the ground-truth kernel.
type ReferenceSpec struct {
	Source string  `yaml:"source,omitempty" json:"source,omitempty"`
	Entry  string  `yaml:"entry" json:"entry"`
	Global []int64 `yaml:"global" json:"global"`
	Local  []int64 `yaml:"local" json:"local"`
}

// StrategySpec selects and configures the search strategy.
type StrategySpec struct {
	Name     string     `yaml:"name,omitempty" json:"name,omitempty"`
	MaxDraws int        `yaml:"max_draws,omitempty" json:"max_draws,omitempty"`
	Anneal   AnnealSpec `yaml:"anneal,omitempty" json:"anneal,omitempty"`
	Swarm    SwarmSpec  `yaml:"swarm,omitempty" json:"swarm,omitempty"`
}

// AnnealSpec configures simulated annealing. Zero fields fall back to
// the search package defaults.
type AnnealSpec struct {
	MaxIterations int     `yaml:"max_iterations,omitempty" json:"max_iterations,omitempty"`
	Temperature   float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Cooling       float64 `yaml:"cooling,omitempty" json:"cooling,omitempty"`
	Floor         float64 `yaml:"floor,omitempty" json:"floor,omitempty"`
}

// SwarmSpec configures particle-swarm search. Zero fields fall back to
// the search package defaults.
type SwarmSpec struct {
	Particles      int     `yaml:"particles,omitempty" json:"particles,omitempty"`
	MaxGenerations int     `yaml:"max_generations,omitempty" json:"max_generations,omitempty"`
	Stagnation     int     `yaml:"stagnation,omitempty" json:"stagnation,omitempty"`
	Inertia        float64 `yaml:"inertia,omitempty" json:"inertia,omitempty"`
	Cognitive      float64 `yaml:"cognitive,omitempty" json:"cognitive,omitempty"`
	Social         float64 `yaml:"social,omitempty" json:"social,omitempty"`
}

// BudgetSpec bounds the run. MaxDuration is a Go duration string.
type BudgetSpec struct {
	MaxEvaluations int    `yaml:"max_evaluations,omitempty" json:"max_evaluations,omitempty"`
	MaxDuration    string `yaml:"max_duration,omitempty" json:"max_duration,omitempty"`
}
