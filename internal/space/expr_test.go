package space

import "testing"

func mustConfig(t *testing.T, names []string, values []int64) Configuration {
	t.Helper()
	cfg, err := NewConfiguration(names, values)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestConstraintHolds(t *testing.T) {
	cfg := mustConfig(t, []string{"MWG", "MDIMC", "VWM", "KWG", "KWI"}, []int64{64, 16, 4, 16, 8})

	tests := []struct {
		name string
		c    Constraint
		want bool
	}{
		{"eq chain holds", Eq(Param("MWG"), Param("MDIMC").Mul(Param("VWM"))), true},
		{"eq chain fails", Eq(Param("MWG"), Param("MDIMC").Mul(Value(2))), false},
		{"multiple-of holds", MultipleOf(Param("KWG"), Param("KWI")), true},
		{"multiple-of fails", MultipleOf(Param("KWI"), Param("KWG")), false},
		{"div exact", Eq(Param("MWG").Div(Param("VWM")), Param("MDIMC")), true},
		{"div inexact fails", Eq(Param("KWI").Div(Value(3)), Value(2)), false},
		{"div by zero fails", Eq(Param("MWG").Div(Value(0)), Value(1)), false},
		{"unknown parameter fails", Eq(Param("NOPE"), Value(1)), false},
		{"left-to-right chain", Eq(Param("MWG").Mul(Param("VWM")).Div(Param("MDIMC")), Value(16)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Holds(cfg); got != tt.want {
				t.Fatalf("%s: got %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestConstraintParams(t *testing.T) {
	c := Eq(Param("A").Mul(Param("B")), Param("A").Div(Value(2)))
	params := c.Params()
	if len(params) != 2 || params[0] != "A" || params[1] != "B" {
		t.Fatalf("params = %v, want [A B]", params)
	}
}

func TestConstraintString(t *testing.T) {
	c := MultipleOf(Param("KWG"), Param("KWI"))
	if got := c.String(); got != "KWG %% KWI" {
		t.Fatalf("String() = %q", got)
	}
	c = Eq(Param("MWG"), Param("MDIMC").Mul(Param("VWM")))
	if got := c.String(); got != "MWG == MDIMC*VWM" {
		t.Fatalf("String() = %q", got)
	}
}

func TestConfigurationImmutability(t *testing.T) {
	cfg := mustConfig(t, []string{"A", "B"}, []int64{2, 3})
	values := cfg.Values()
	values[0] = 99
	if v, _ := cfg.Value("A"); v != 2 {
		t.Fatalf("Values() aliases internal state: A = %d", v)
	}
	m := cfg.Map()
	m["A"] = 99
	if v, _ := cfg.Value("A"); v != 2 {
		t.Fatalf("Map() aliases internal state: A = %d", v)
	}
}

func TestConfigurationKey(t *testing.T) {
	cfg := mustConfig(t, []string{"B", "A"}, []int64{3, 2})
	if got := cfg.Key(); got != "B=3,A=2" {
		t.Fatalf("Key() = %q, want declaration order", got)
	}
}
