package search

import (
	"math"
	"math/rand/v2"

	"github.com/samcharles93/kerntune/internal/space"
)

type AnnealingOptions struct {
	// MaxIterations caps the number of proposals.
	MaxIterations int
	// Temperature is the initial temperature, in the same unit as the
	// measured execution times (milliseconds).
	Temperature float64
	// CoolingFactor scales the temperature after every recorded result.
	// Must be in (0, 1).
	CoolingFactor float64
	// TemperatureFloor terminates the run once the temperature decays
	// below it.
	TemperatureFloor float64
	// MaxPerturbAttempts bounds how many invalid single-parameter
	// perturbations are rejected before falling back to a fresh random
	// draw.
	MaxPerturbAttempts int
}

func DefaultAnnealingOptions() AnnealingOptions {
	return AnnealingOptions{
		MaxIterations:      128,
		Temperature:        4.0,
		CoolingFactor:      0.95,
		TemperatureFloor:   1e-3,
		MaxPerturbAttempts: 16,
	}
}

// Annealing walks the configuration space by single-parameter
// perturbation with Metropolis acceptance: a slower candidate replaces
// the current configuration with probability exp(-(new-current)/T), and
// the temperature decays geometrically each iteration.
type Annealing struct {
	gen  *space.Generator
	rng  *rand.Rand
	opts AnnealingOptions

	current     space.Configuration
	currentTime float64
	hasCurrent  bool
	proposed    space.Configuration

	temp float64
	iter int
	done bool
}

func NewAnnealing(gen *space.Generator, rng *rand.Rand, opts AnnealingOptions) *Annealing {
	def := DefaultAnnealingOptions()
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Temperature <= 0 {
		opts.Temperature = def.Temperature
	}
	if opts.CoolingFactor <= 0 || opts.CoolingFactor >= 1 {
		opts.CoolingFactor = def.CoolingFactor
	}
	if opts.TemperatureFloor <= 0 {
		opts.TemperatureFloor = def.TemperatureFloor
	}
	if opts.MaxPerturbAttempts <= 0 {
		opts.MaxPerturbAttempts = def.MaxPerturbAttempts
	}
	return &Annealing{
		gen:         gen,
		rng:         rng,
		opts:        opts,
		currentTime: math.Inf(1),
		temp:        opts.Temperature,
	}
}

func (a *Annealing) Name() string { return string(KindAnnealing) }

func (a *Annealing) HasNext() bool {
	return !a.done && a.iter < a.opts.MaxIterations && a.temp >= a.opts.TemperatureFloor
}

func (a *Annealing) Next() (space.Configuration, error) {
	if !a.HasNext() {
		return space.Configuration{}, space.ErrSpaceExhausted
	}
	if !a.hasCurrent {
		cfg, err := a.gen.Sample(a.rng)
		if err != nil {
			a.done = true
			return space.Configuration{}, err
		}
		a.current = cfg
		a.hasCurrent = true
		a.proposed = cfg
		return cfg, nil
	}
	cfg, err := a.perturb()
	if err != nil {
		a.done = true
		return space.Configuration{}, err
	}
	a.proposed = cfg
	return cfg, nil
}

// Temperature returns the current temperature. It only decreases.
func (a *Annealing) Temperature() float64 {
	return a.temp
}

func (a *Annealing) Record(cfg space.Configuration, elapsedMS float64, valid bool) {
	if !valid {
		elapsedMS = math.Inf(1)
	}
	switch {
	case elapsedMS < a.currentTime:
		a.current = cfg
		a.currentTime = elapsedMS
	case !math.IsInf(elapsedMS, 1):
		prob := math.Exp(-(elapsedMS - a.currentTime) / a.temp)
		if a.rng.Float64() < prob {
			a.current = cfg
			a.currentTime = elapsedMS
		}
	}
	a.temp *= a.opts.CoolingFactor
	a.iter++
}

// perturb changes one randomly chosen parameter of the current
// configuration to a different value from its domain, rejecting invalid
// results up to the attempt bound, then falls back to a fresh draw.
func (a *Annealing) perturb() (space.Configuration, error) {
	sp := a.gen.Space()
	params := sp.Parameters()
	names := a.current.Names()
	for attempt := 0; attempt < a.opts.MaxPerturbAttempts; attempt++ {
		i := a.rng.IntN(len(params))
		domain := params[i].Values
		if len(domain) < 2 {
			continue
		}
		old, _ := a.current.Value(params[i].Name)
		next := old
		for next == old {
			next = domain[a.rng.IntN(len(domain))]
		}
		values := a.current.Values()
		values[i] = next
		cfg, err := space.NewConfiguration(names, values)
		if err != nil {
			return space.Configuration{}, err
		}
		if sp.Evaluate(cfg) {
			return cfg, nil
		}
	}
	return a.gen.Sample(a.rng)
}
