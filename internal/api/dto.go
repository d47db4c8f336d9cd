package api

// RunResponse is the wire form of one tuning run.
type RunResponse struct {
	ID        string  `json:"id"`
	Object    string  `json:"object"`
	CreatedAt int64   `json:"created_at"`
	Kernel    string  `json:"kernel"`
	Strategy  string  `json:"strategy"`
	Status    string  `json:"status"`
	Error     string  `json:"error,omitempty"`
	Evaluated int     `json:"evaluated"`
	Valid     int     `json:"valid"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// RunListResponse is the wire form of GET /v1/runs.
type RunListResponse struct {
	Object string        `json:"object"`
	Data   []RunResponse `json:"data"`
}

// LeaderboardEntry is one ranked result in a run's leaderboard.
type LeaderboardEntry struct {
	Rank      int              `json:"rank"`
	ElapsedMS float64          `json:"elapsed_ms"`
	Config    map[string]int64 `json:"config"`
}

// LeaderboardResponse is the wire form of GET /v1/runs/:id/leaderboard.
type LeaderboardResponse struct {
	Object string             `json:"object"`
	RunID  string             `json:"run_id"`
	Data   []LeaderboardEntry `json:"data"`
}

// ResponseError mirrors the error envelope of every non-2xx response.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
