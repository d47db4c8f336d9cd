package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/kerntune/internal/pipeline"
	"github.com/samcharles93/kerntune/internal/space"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	mk := func(bs int64, ms float64) pipeline.Result {
		cfg, err := space.NewConfiguration([]string{"BS", "WPT"}, []int64{bs, 2})
		if err != nil {
			t.Fatal(err)
		}
		return pipeline.Result{Config: cfg, ElapsedMS: ms, Status: pipeline.StatusValid}
	}
	return &Report{
		Kernel:   "copy",
		Strategy: "full",
		Summary: pipeline.Summary{
			Evaluated: 3,
			Valid:     2,
			Elapsed:   1500 * time.Millisecond,
		},
		Results: []pipeline.Result{mk(4, 2.5), mk(2, 5.0)},
	}
}

func TestWriteTable(t *testing.T) {
	var b strings.Builder
	if err := testReport(t).WriteTable(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"RANK", "BS=4", "2.500", "3 evaluated, 2 valid"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	first := strings.Index(out, "BS=4")
	second := strings.Index(out, "BS=2")
	if first < 0 || second < 0 || first > second {
		t.Errorf("results out of rank order:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	if err := testReport(t).WriteCSV(&b); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	wantHeader := []string{"rank", "elapsed_ms", "status", "BS", "WPT"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][3] != "4" || rows[2][3] != "2" {
		t.Errorf("BS column = %q, %q", rows[1][3], rows[2][3])
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	if err := testReport(t).WriteJSON(&b); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Kernel  string `json:"kernel"`
		Summary struct {
			Evaluated int     `json:"evaluated"`
			ElapsedMS float64 `json:"elapsed_ms"`
		} `json:"summary"`
		Results []struct {
			Rank   int              `json:"rank"`
			Config map[string]int64 `json:"config"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kernel != "copy" {
		t.Errorf("kernel = %q", decoded.Kernel)
	}
	if decoded.Summary.Evaluated != 3 || decoded.Summary.ElapsedMS != 1500 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].Rank != 1 || decoded.Results[0].Config["BS"] != 4 {
		t.Errorf("results = %+v", decoded.Results)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	r := &Report{Kernel: "k", Strategy: "full"}
	var b strings.Builder
	if err := r.WriteTable(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "0 evaluated") {
		t.Errorf("empty table output:\n%s", b.String())
	}
}
