package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/kerntune/internal/pipeline"
	"github.com/samcharles93/kerntune/pkg/tunespec"
)

const (
	runStatusQueued    = "queued"
	runStatusRunning   = "running"
	runStatusCompleted = "completed"
	runStatusFailed    = "failed"
	runStatusCancelled = "cancelled"
)

type runRecord struct {
	ID        string
	CreatedAt time.Time
	Spec      *tunespec.Spec
	Strategy  string
	Status    string
	Err       string
	Summary   pipeline.Summary
	Results   []pipeline.Result
	cancel    context.CancelFunc
}

// RunStore holds every submitted tuning run for the lifetime of the
// server process.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*runRecord
	// order preserves submission order for listing.
	order []string
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*runRecord),
	}
}

// Create registers a queued run and returns a copy of its record.
func (s *RunStore) Create(spec *tunespec.Spec, strategy string, cancel context.CancelFunc, now time.Time) runRecord {
	rec := &runRecord{
		ID:        "run_" + uuid.NewString(),
		CreatedAt: now,
		Spec:      spec,
		Strategy:  strategy,
		Status:    runStatusQueued,
		cancel:    cancel,
	}
	s.mu.Lock()
	s.runs[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.mu.Unlock()
	return *rec
}

// Get returns a copy of the record so callers never race the run
// goroutine.
func (s *RunStore) Get(id string) (runRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.runs[id]
	if !ok {
		return runRecord{}, false
	}
	return *rec, true
}

// List returns copies of every record in submission order.
func (s *RunStore) List() []runRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]runRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.runs[id])
	}
	return out
}

func (s *RunStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.runs[id]
	if !ok {
		return false
	}
	if rec.cancel != nil {
		rec.cancel()
	}
	delete(s.runs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Cancel requests cancellation of a queued or running run. The status
// flips immediately; the run goroutine observes the context and stops.
func (s *RunStore) Cancel(id string) (runRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.runs[id]
	if !ok {
		return runRecord{}, false
	}
	if rec.Status == runStatusQueued || rec.Status == runStatusRunning {
		rec.Status = runStatusCancelled
		if rec.cancel != nil {
			rec.cancel()
		}
	}
	return *rec, true
}

func (s *RunStore) setRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.runs[id]; ok && rec.Status == runStatusQueued {
		rec.Status = runStatusRunning
	}
}

func (s *RunStore) setFinished(id string, summary pipeline.Summary, results []pipeline.Result, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.runs[id]
	if !ok {
		return
	}
	rec.Summary = summary
	rec.Results = results
	switch {
	case rec.Status == runStatusCancelled:
		// keep the cancelled status set by Cancel
	case runErr != nil:
		rec.Status = runStatusFailed
		rec.Err = runErr.Error()
	default:
		rec.Status = runStatusCompleted
	}
}
