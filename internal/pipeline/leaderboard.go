package pipeline

import (
	"github.com/samcharles93/kerntune/internal/space"
)

// Status classifies the outcome of one attempted configuration.
type Status string

const (
	StatusValid             Status = "valid"
	StatusCompileFailed     Status = "compile_failed"
	StatusLaunchFailed      Status = "launch_failed"
	StatusCorrectnessFailed Status = "correctness_failed"
)

// Result is one attempted configuration with its measured time and
// status. Created once per attempt by the pipeline and never mutated.
type Result struct {
	Config    space.Configuration
	ElapsedMS float64
	Status    Status
	Detail    string
}

// Leaderboard keeps the valid results ordered by ascending elapsed time.
// Insertion is stable: on equal times the earlier result ranks first.
type Leaderboard struct {
	results []Result
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

// Insert adds a valid result in rank order. Results with any other status
// are ignored.
func (l *Leaderboard) Insert(r Result) {
	if r.Status != StatusValid {
		return
	}
	at := len(l.results)
	for i, existing := range l.results {
		if r.ElapsedMS < existing.ElapsedMS {
			at = i
			break
		}
	}
	l.results = append(l.results, Result{})
	copy(l.results[at+1:], l.results[at:])
	l.results[at] = r
}

// Best returns the fastest valid result.
func (l *Leaderboard) Best() (Result, bool) {
	if len(l.results) == 0 {
		return Result{}, false
	}
	return l.results[0], true
}

// Results returns an ordered snapshot, best first.
func (l *Leaderboard) Results() []Result {
	out := make([]Result, len(l.results))
	copy(out, l.results)
	return out
}

func (l *Leaderboard) Len() int {
	return len(l.results)
}
