package search

import (
	"math"
	"math/rand/v2"

	"github.com/samcharles93/kerntune/internal/space"
)

type SwarmOptions struct {
	// Particles is the swarm size.
	Particles int
	// MaxGenerations caps how many times every particle is evaluated.
	MaxGenerations int
	// Stagnation terminates the run after this many generations without
	// a global-best improvement.
	Stagnation int
	// Inertia, Cognitive, and Social are the velocity-update weights.
	Inertia   float64
	Cognitive float64
	Social    float64
	// MaxRepairAttempts bounds per-parameter rejection repair of an
	// invalid particle position before falling back to a fresh draw.
	MaxRepairAttempts int
}

func DefaultSwarmOptions() SwarmOptions {
	return SwarmOptions{
		Particles:         8,
		MaxGenerations:    16,
		Stagnation:        6,
		Inertia:           0.7,
		Cognitive:         1.5,
		Social:            1.5,
		MaxRepairAttempts: 16,
	}
}

// particle is one point in the integer parameter space. Positions and
// velocities live in domain-index coordinates, one dimension per
// parameter, so the update rule is independent of the magnitude of the
// candidate values.
type particle struct {
	pos []float64
	vel []float64
	cfg space.Configuration

	bestPos  []float64
	bestTime float64
}

// Swarm is particle-swarm optimization over the valid configuration
// subspace. Every generation evaluates each particle once, then moves the
// particles toward a weighted blend of their personal best and the
// swarm's global best.
type Swarm struct {
	gen  *space.Generator
	rng  *rand.Rand
	opts SwarmOptions

	params    []space.Parameter
	names     []string
	particles []*particle

	globalPos  []float64
	globalTime float64

	cursor       int
	generation   int
	sinceImprove int
	improved     bool
	initialized  bool
	done         bool
}

func NewSwarm(gen *space.Generator, rng *rand.Rand, opts SwarmOptions) *Swarm {
	def := DefaultSwarmOptions()
	if opts.Particles <= 0 {
		opts.Particles = def.Particles
	}
	if opts.MaxGenerations <= 0 {
		opts.MaxGenerations = def.MaxGenerations
	}
	if opts.Stagnation <= 0 {
		opts.Stagnation = def.Stagnation
	}
	if opts.Inertia <= 0 {
		opts.Inertia = def.Inertia
	}
	if opts.Cognitive <= 0 {
		opts.Cognitive = def.Cognitive
	}
	if opts.Social <= 0 {
		opts.Social = def.Social
	}
	if opts.MaxRepairAttempts <= 0 {
		opts.MaxRepairAttempts = def.MaxRepairAttempts
	}
	sp := gen.Space()
	names := make([]string, 0, sp.Len())
	for _, p := range sp.Parameters() {
		names = append(names, p.Name)
	}
	return &Swarm{
		gen:        gen,
		rng:        rng,
		opts:       opts,
		params:     sp.Parameters(),
		names:      names,
		globalTime: math.Inf(1),
	}
}

func (s *Swarm) Name() string { return string(KindSwarm) }

func (s *Swarm) HasNext() bool {
	return !s.done && s.generation < s.opts.MaxGenerations
}

func (s *Swarm) Next() (space.Configuration, error) {
	if !s.HasNext() {
		return space.Configuration{}, space.ErrSpaceExhausted
	}
	if !s.initialized {
		if err := s.seed(); err != nil {
			s.done = true
			return space.Configuration{}, err
		}
	}
	return s.particles[s.cursor].cfg, nil
}

// GlobalBestTime returns the best elapsed time observed so far. It only
// decreases across generations.
func (s *Swarm) GlobalBestTime() float64 {
	return s.globalTime
}

func (s *Swarm) Record(cfg space.Configuration, elapsedMS float64, valid bool) {
	if !s.initialized || s.done {
		return
	}
	if !valid {
		elapsedMS = math.Inf(1)
	}
	p := s.particles[s.cursor]
	if elapsedMS < p.bestTime {
		p.bestTime = elapsedMS
		p.bestPos = indicesOf(cfg, s.params)
	}
	if elapsedMS < s.globalTime {
		s.globalTime = elapsedMS
		s.globalPos = indicesOf(cfg, s.params)
		s.improved = true
	}

	s.cursor++
	if s.cursor < len(s.particles) {
		return
	}

	// Generation complete.
	s.cursor = 0
	s.generation++
	if s.improved {
		s.sinceImprove = 0
	} else {
		s.sinceImprove++
	}
	s.improved = false
	if s.sinceImprove >= s.opts.Stagnation || s.generation >= s.opts.MaxGenerations {
		s.done = true
		return
	}
	if err := s.move(); err != nil {
		s.done = true
	}
}

// seed draws the initial swarm from the valid subspace.
func (s *Swarm) seed() error {
	dims := len(s.params)
	s.particles = make([]*particle, s.opts.Particles)
	for i := range s.particles {
		cfg, err := s.gen.Sample(s.rng)
		if err != nil {
			return err
		}
		pos := indicesOf(cfg, s.params)
		vel := make([]float64, dims)
		for d := range vel {
			span := float64(len(s.params[d].Values) - 1)
			vel[d] = (s.rng.Float64()*2 - 1) * span / 4
		}
		s.particles[i] = &particle{
			pos:      pos,
			vel:      vel,
			cfg:      cfg,
			bestPos:  append([]float64(nil), pos...),
			bestTime: math.Inf(1),
		}
	}
	s.initialized = true
	return nil
}

// move applies the velocity update to every particle and materializes the
// new positions as configurations.
func (s *Swarm) move() error {
	for _, p := range s.particles {
		for d := range p.pos {
			r1 := s.rng.Float64()
			r2 := s.rng.Float64()
			social := 0.0
			if s.globalPos != nil {
				social = s.opts.Social * r2 * (s.globalPos[d] - p.pos[d])
			}
			p.vel[d] = s.opts.Inertia*p.vel[d] +
				s.opts.Cognitive*r1*(p.bestPos[d]-p.pos[d]) +
				social
			p.pos[d] += p.vel[d]
			limit := float64(len(s.params[d].Values) - 1)
			if p.pos[d] < 0 {
				p.pos[d] = 0
				p.vel[d] = 0
			}
			if p.pos[d] > limit {
				p.pos[d] = limit
				p.vel[d] = 0
			}
		}
		if err := s.materialize(p); err != nil {
			return err
		}
	}
	return nil
}

// materialize rounds a particle position to domain values and repairs
// constraint violations by resampling single parameters, falling back to
// a fresh uniform draw.
func (s *Swarm) materialize(p *particle) error {
	sp := s.gen.Space()
	values := make([]int64, len(s.params))
	for d, param := range s.params {
		values[d] = param.Values[int(math.Round(p.pos[d]))]
	}
	cfg, err := space.NewConfiguration(s.names, values)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < s.opts.MaxRepairAttempts && !sp.Evaluate(cfg); attempt++ {
		d := s.rng.IntN(len(s.params))
		values[d] = s.params[d].Values[s.rng.IntN(len(s.params[d].Values))]
		cfg, err = space.NewConfiguration(s.names, values)
		if err != nil {
			return err
		}
	}
	if !sp.Evaluate(cfg) {
		cfg, err = s.gen.Sample(s.rng)
		if err != nil {
			return err
		}
	}
	p.cfg = cfg
	p.pos = indicesOf(cfg, s.params)
	return nil
}

// indicesOf maps a configuration to domain-index coordinates.
func indicesOf(cfg space.Configuration, params []space.Parameter) []float64 {
	pos := make([]float64, len(params))
	for d, param := range params {
		v, _ := cfg.Value(param.Name)
		for i, candidate := range param.Values {
			if candidate == v {
				pos[d] = float64(i)
				break
			}
		}
	}
	return pos
}
