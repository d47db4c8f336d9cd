package space

import (
	"fmt"
	"strings"
)

// Configuration is one complete assignment of values to all declared
// parameters. It is never mutated after creation; perturbation in the
// search strategies always builds a new Configuration.
type Configuration struct {
	names  []string
	values []int64
	lookup map[string]int64
}

// NewConfiguration builds a configuration from parallel name/value slices
// in declaration order. The slices are copied.
func NewConfiguration(names []string, values []int64) (Configuration, error) {
	if len(names) != len(values) {
		return Configuration{}, fmt.Errorf("space: %d names but %d values", len(names), len(values))
	}
	cfg := Configuration{
		names:  make([]string, len(names)),
		values: make([]int64, len(values)),
		lookup: make(map[string]int64, len(names)),
	}
	copy(cfg.names, names)
	copy(cfg.values, values)
	for i, name := range names {
		cfg.lookup[name] = values[i]
	}
	return cfg, nil
}

// Value returns the assigned value of a parameter.
func (c Configuration) Value(name string) (int64, bool) {
	v, ok := c.lookup[name]
	return v, ok
}

// Names returns the parameter names in declaration order. Shared slice,
// read-only.
func (c Configuration) Names() []string {
	return c.names
}

// Values returns a copy of the assigned values in declaration order.
func (c Configuration) Values() []int64 {
	out := make([]int64, len(c.values))
	copy(out, c.values)
	return out
}

// Map returns the assignment as a fresh name-to-value map.
func (c Configuration) Map() map[string]int64 {
	out := make(map[string]int64, len(c.lookup))
	for k, v := range c.lookup {
		out[k] = v
	}
	return out
}

// Len returns the number of assigned parameters.
func (c Configuration) Len() int {
	return len(c.values)
}

// Key is a canonical string form in declaration order, usable as a map key
// for seen-sets and as a stable display form.
func (c Configuration) Key() string {
	var b strings.Builder
	for i, name := range c.names {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d", name, c.values[i])
	}
	return b.String()
}

func (c Configuration) String() string {
	return c.Key()
}
