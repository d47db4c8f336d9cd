package tunespec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/search"
)

const sampleYAML = `
kernel:
  name: gemm
  entry: gemm_fast
  global: [2048, 2048]
  local: [8, 8]
  modifiers:
    - {target: global, op: div, param: VWM, dim: 0}
    - {target: local, op: mul, param: MDIMC, dim: 0}
  args:
    - {name: a, kind: in, size: 16}
    - {name: out, kind: out, size: 16}
    - {name: n, kind: scalar, scalar: 2048}
  reference:
    entry: gemm_plain
    global: [2048, 2048]
    local: [8, 8]
  tolerance: 0.001
parameters:
  - {name: MWG, values: [16, 32, 64]}
  - {name: MDIMC, values: [8, 16]}
  - {name: VWM, values: [1, 2, 4]}
constraints:
  - "MWG == MDIMC*VWM"
strategy:
  name: anneal
  anneal:
    max_iterations: 50
    temperature: 4.0
budget:
  max_evaluations: 40
  max_duration: 2m
seed: 42
`

func TestParseYAML(t *testing.T) {
	spec, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if spec.Kernel.Entry != "gemm_fast" {
		t.Errorf("entry = %q", spec.Kernel.Entry)
	}
	if len(spec.Parameters) != 3 {
		t.Fatalf("parameters = %d, want 3", len(spec.Parameters))
	}
	if spec.Seed != 42 {
		t.Errorf("seed = %d, want 42", spec.Seed)
	}
	if got := spec.BudgetDuration(); got != 2*time.Minute {
		t.Errorf("budget duration = %v, want 2m", got)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
		"kernel": {"entry": "copy", "global": [1024], "local": [64]},
		"parameters": [{"name": "WPT", "values": [1, 2, 4]}],
		"strategy": {"name": "random", "max_draws": 8}
	}`
	spec, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	kind, opts, err := spec.BuildStrategy()
	if err != nil {
		t.Fatal(err)
	}
	if kind != search.KindRandom {
		t.Errorf("kind = %q, want random", kind)
	}
	if opts.Random.MaxDraws != 8 {
		t.Errorf("max draws = %d, want 8", opts.Random.MaxDraws)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Kernel.Name != "gemm" {
		t.Errorf("name = %q", spec.Kernel.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "no kernel",
			doc:  `parameters: [{name: A, values: [1]}]`,
			want: ErrNoKernel,
		},
		{
			name: "no parameters",
			doc: `kernel:
  entry: k
  global: [64]`,
			want: ErrNoParameters,
		},
		{
			name: "bad modifier target",
			doc: `kernel:
  entry: k
  global: [64]
  modifiers:
    - {target: sideways, op: mul, param: A, dim: 0}
parameters: [{name: A, values: [1]}]`,
			want: ErrBadModifier,
		},
		{
			name: "bad modifier op",
			doc: `kernel:
  entry: k
  global: [64]
  modifiers:
    - {target: global, op: add, param: A, dim: 0}
parameters: [{name: A, values: [1]}]`,
			want: ErrBadModifier,
		},
		{
			name: "bad argument kind",
			doc: `kernel:
  entry: k
  global: [64]
  args:
    - {name: x, kind: inout}
parameters: [{name: A, values: [1]}]`,
			want: ErrBadArgument,
		},
		{
			name: "bad duration",
			doc: `kernel:
  entry: k
  global: [64]
parameters: [{name: A, values: [1]}]
budget: {max_duration: "five minutes"}`,
			want: ErrBadBudget,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); !errors.Is(err, tc.want) {
				t.Errorf("Parse = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBuildSpace(t *testing.T) {
	spec, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	sp, err := spec.BuildSpace()
	if err != nil {
		t.Fatal(err)
	}
	if sp.Len() != 3 {
		t.Errorf("parameters = %d, want 3", sp.Len())
	}
	if got := sp.ProductSize(); got != 18 {
		t.Errorf("product size = %d, want 18", got)
	}
	if len(sp.Constraints()) != 1 {
		t.Errorf("constraints = %d, want 1", len(sp.Constraints()))
	}
}

func TestBuildSpaceBadConstraint(t *testing.T) {
	spec := &Spec{
		Parameters:  []ParameterSpec{{Name: "A", Values: []int64{1, 2}}},
		Constraints: []string{"A =="},
	}
	if _, err := spec.BuildSpace(); !errors.Is(err, ErrBadConstraint) {
		t.Errorf("BuildSpace = %v, want ErrBadConstraint", err)
	}
}

func TestBuildKernel(t *testing.T) {
	spec, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	k, err := spec.BuildKernel()
	if err != nil {
		t.Fatal(err)
	}
	if k.Entry != "gemm_fast" {
		t.Errorf("entry = %q", k.Entry)
	}
	if len(k.Modifiers) != 2 {
		t.Fatalf("modifiers = %d, want 2", len(k.Modifiers))
	}
	m := k.Modifiers[0]
	if m.Target != kernel.TargetGlobal || m.Op != kernel.SizeDiv || m.Param != "VWM" {
		t.Errorf("modifier 0 = %+v", m)
	}
	if len(k.Args) != 3 {
		t.Fatalf("args = %d, want 3", len(k.Args))
	}
	if k.Args[0].Kind != kernel.ArgBufferIn || len(k.Args[0].Data) != 16 {
		t.Errorf("arg 0 = %+v", k.Args[0])
	}
	if k.Args[2].Kind != kernel.ArgScalar || k.Args[2].Scalar != 2048 {
		t.Errorf("arg 2 = %+v", k.Args[2])
	}
	if k.Reference == nil || k.Reference.Entry != "gemm_plain" {
		t.Errorf("reference = %+v", k.Reference)
	}
}

func TestBuildKernelSeedsArgValues(t *testing.T) {
	spec := &Spec{
		Kernel: KernelSpec{
			Entry:  "k",
			Global: []int64{4},
			Args: []ArgSpec{
				{Name: "x", Kind: "in", Size: 4, Values: []float32{1, 2}},
			},
		},
		Parameters: []ParameterSpec{{Name: "A", Values: []int64{1}}},
	}
	k, err := spec.BuildKernel()
	if err != nil {
		t.Fatal(err)
	}
	data := k.Args[0].Data
	if len(data) != 4 || data[0] != 1 || data[1] != 2 || data[2] != 0 {
		t.Errorf("data = %v", data)
	}
}
