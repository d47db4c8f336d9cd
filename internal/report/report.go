// Package report renders tuning results for humans and for files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/kerntune/internal/device"
	"github.com/samcharles93/kerntune/internal/pipeline"
)

// Report is one finished tuning run ready for rendering.
type Report struct {
	Kernel   string
	Strategy string
	Device   *device.Info
	Summary  pipeline.Summary
	Results  []pipeline.Result
}

// WriteTable renders a ranked, human-readable table with a run summary
// underneath.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTIME (MS)\tSTATUS\tCONFIGURATION")
	for i, res := range r.Results {
		elapsed := "-"
		if res.Status == pipeline.StatusValid {
			elapsed = strconv.FormatFloat(res.ElapsedMS, 'f', 3, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, elapsed, res.Status, res.Config)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	s := r.Summary
	fmt.Fprintf(w, "\n%d evaluated, %d valid, %d compile failed, %d launch failed, %d incorrect in %s\n",
		s.Evaluated, s.Valid, s.CompileFailed, s.LaunchFailed, s.CorrectnessFailed,
		s.Elapsed.Round(time.Millisecond))
	if s.Stopped {
		fmt.Fprintln(w, "run stopped before the space was exhausted")
	}
	return nil
}

// WriteCSV renders one row per result. Parameter columns come from the
// first result's configuration and stay in declaration order.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "elapsed_ms", "status"}
	var names []string
	if len(r.Results) > 0 {
		names = r.Results[0].Config.Names()
		header = append(header, names...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, res := range r.Results {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(res.ElapsedMS, 'f', 3, 64),
			string(res.Status),
		}
		for _, name := range names {
			v, _ := res.Config.Value(name)
			row = append(row, strconv.FormatInt(v, 10))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonResult struct {
	Rank      int              `json:"rank"`
	ElapsedMS float64          `json:"elapsed_ms"`
	Status    string           `json:"status"`
	Detail    string           `json:"detail,omitempty"`
	Config    map[string]int64 `json:"config"`
}

type jsonReport struct {
	Kernel   string       `json:"kernel"`
	Strategy string       `json:"strategy"`
	Device   *device.Info `json:"device,omitempty"`
	Summary  jsonSummary  `json:"summary"`
	Results  []jsonResult `json:"results"`
}

type jsonSummary struct {
	Evaluated         int     `json:"evaluated"`
	Valid             int     `json:"valid"`
	CompileFailed     int     `json:"compile_failed"`
	LaunchFailed      int     `json:"launch_failed"`
	CorrectnessFailed int     `json:"correctness_failed"`
	Stopped           bool    `json:"stopped"`
	ElapsedMS         float64 `json:"elapsed_ms"`
}

// WriteJSON renders the full report as one indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		Kernel:   r.Kernel,
		Strategy: r.Strategy,
		Device:   r.Device,
		Summary: jsonSummary{
			Evaluated:         r.Summary.Evaluated,
			Valid:             r.Summary.Valid,
			CompileFailed:     r.Summary.CompileFailed,
			LaunchFailed:      r.Summary.LaunchFailed,
			CorrectnessFailed: r.Summary.CorrectnessFailed,
			Stopped:           r.Summary.Stopped,
			ElapsedMS:         float64(r.Summary.Elapsed) / float64(time.Millisecond),
		},
		Results: make([]jsonResult, 0, len(r.Results)),
	}
	for i, res := range r.Results {
		out.Results = append(out.Results, jsonResult{
			Rank:      i + 1,
			ElapsedMS: res.ElapsedMS,
			Status:    string(res.Status),
			Detail:    res.Detail,
			Config:    res.Config.Map(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// BestLine is the one-line summary printed after a run.
func BestLine(best pipeline.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "best: %s at %.3f ms", best.Config, best.ElapsedMS)
	return b.String()
}
