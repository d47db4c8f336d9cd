// Package api exposes tuning runs over HTTP. Runs execute
// asynchronously; clients poll run status and fetch the leaderboard
// once a run completes.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/kerntune/internal/kernel"
	"github.com/samcharles93/kerntune/internal/logger"
	"github.com/samcharles93/kerntune/internal/pipeline"
	"github.com/samcharles93/kerntune/internal/session"
	"github.com/samcharles93/kerntune/pkg/tunespec"
)

// RuntimeFactory builds the runtime a submitted run executes on. The
// seed is the run's resolved random seed.
type RuntimeFactory func(spec *tunespec.Spec, seed uint64) kernel.Runtime

func defaultRuntime(spec *tunespec.Spec, seed uint64) kernel.Runtime {
	return &kernel.SimRuntime{Cost: kernel.TerrainCost(seed)}
}

type Server struct {
	store   *RunStore
	runtime RuntimeFactory
	log     logger.Logger
	clock   func() time.Time
}

func NewServer(store *RunStore, runtime RuntimeFactory, log logger.Logger) *Server {
	if store == nil {
		store = NewRunStore()
	}
	if runtime == nil {
		runtime = defaultRuntime
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		store:   store,
		runtime: runtime,
		log:     log,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/runs", s.handleCreateRun)
	e.GET("/v1/runs", s.handleListRuns)
	e.GET("/v1/runs/:id", s.handleGetRun)
	e.GET("/v1/runs/:id/leaderboard", s.handleLeaderboard)
	e.POST("/v1/runs/:id/cancel", s.handleCancelRun)
	e.DELETE("/v1/runs/:id", s.handleDeleteRun)
}

func (s *Server) handleCreateRun(c *echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	spec, err := tunespec.ParseJSON(body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	kind, _, err := spec.BuildStrategy()
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := s.store.Create(spec, string(kind), cancel, s.clock())
	go s.execute(ctx, rec.ID, spec)

	return c.JSON(http.StatusAccepted, runResponse(rec))
}

// execute owns one run goroutine from queued to a terminal status.
func (s *Server) execute(ctx context.Context, id string, spec *tunespec.Spec) {
	log := s.log.With("run", id)

	seeded := *spec
	seeded.Seed = session.ResolveSeed(spec)
	sess, err := session.New(&seeded, s.runtime(&seeded, seeded.Seed), log)
	if err != nil {
		s.store.setFinished(id, pipeline.Summary{}, nil, err)
		log.Error("run setup failed", "error", err)
		return
	}

	s.store.setRunning(id)
	summary, results, err := sess.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.store.setFinished(id, derefSummary(summary), nil, err)
		log.Error("run failed", "error", err)
		return
	}
	s.store.setFinished(id, derefSummary(summary), results, nil)
	log.Info("run finished", "evaluated", derefSummary(summary).Evaluated, "valid", derefSummary(summary).Valid)
}

func (s *Server) handleListRuns(c *echo.Context) error {
	recs := s.store.List()
	out := RunListResponse{Object: "list", Data: make([]RunResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Data = append(out.Data, runResponse(rec))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRun(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, runResponse(rec))
}

func (s *Server) handleLeaderboard(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "run not found")
	}
	out := LeaderboardResponse{
		Object: "leaderboard",
		RunID:  rec.ID,
		Data:   make([]LeaderboardEntry, 0, len(rec.Results)),
	}
	for i, res := range rec.Results {
		out.Data = append(out.Data, LeaderboardEntry{
			Rank:      i + 1,
			ElapsedMS: res.ElapsedMS,
			Config:    res.Config.Map(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCancelRun(c *echo.Context) error {
	rec, ok := s.store.Cancel(c.Param("id"))
	if !ok {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, runResponse(rec))
}

func (s *Server) handleDeleteRun(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      id,
		"object":  "run.deleted",
		"deleted": true,
	})
}

func runResponse(rec runRecord) RunResponse {
	return RunResponse{
		ID:        rec.ID,
		Object:    "run",
		CreatedAt: rec.CreatedAt.Unix(),
		Kernel:    rec.Spec.Kernel.Name,
		Strategy:  rec.Strategy,
		Status:    rec.Status,
		Error:     rec.Err,
		Evaluated: rec.Summary.Evaluated,
		Valid:     rec.Summary.Valid,
		ElapsedMS: float64(rec.Summary.Elapsed) / float64(time.Millisecond),
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{Message: msg, Type: errType},
	})
}

func derefSummary(s *pipeline.Summary) pipeline.Summary {
	if s == nil {
		return pipeline.Summary{}
	}
	return *s
}
