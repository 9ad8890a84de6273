package outbreakd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/epidemic"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/models"
)

// HTTPServer is the daemon's JSON API.
type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	executor *RunExecutor
	logger   *slog.Logger
}

func NewHTTPServer(store *RunStore, executor *RunExecutor, collector *Collector, logger *slog.Logger) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		executor: executor,
		logger:   logger,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)
	s.mux.Handle("/metrics", collector.Handler())

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRuns handles /v1/runs
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and its sub-resources
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":stop") {
		runID := strings.TrimSuffix(path, ":stop")
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleStopRun(w, runID)
		return
	}

	if runID, ok := strings.CutSuffix(path, "/summaries"); ok {
		s.handleGetOutputs(w, r, runID, func(rec *RunRecord) any {
			return map[string]any{"summaries": rec.Set.Summaries, "best": rec.Set.Best}
		})
		return
	}
	if runID, ok := strings.CutSuffix(path, "/comparisons"); ok {
		s.handleGetOutputs(w, r, runID, func(rec *RunRecord) any {
			return map[string]any{"comparisons": rec.Set.Comparisons}
		})
		return
	}
	if runID, ok := strings.CutSuffix(path, "/trajectory"); ok {
		s.handleGetTrajectory(w, r, runID)
		return
	}

	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rec, ok := s.store.Get(path)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+path)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run": rec.Run})
}

// handleCreateRun handles POST /v1/runs. The optional config_yaml body
// field overrides the default configuration; an absent field runs the
// reference scenario set. Created runs start executing immediately.
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID      string `json:"run_id,omitempty"`
		ConfigYAML string `json:"config_yaml,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg := config.Default()
	if req.ConfigYAML != "" {
		parsed, err := config.ParseConfigYAML([]byte(req.ConfigYAML))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid config: "+err.Error())
			return
		}
		cfg = parsed
	}

	rec, err := s.store.Create(req.RunID, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			s.writeError(w, http.StatusConflict, err.Error())
		} else {
			s.writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	if _, err := s.executor.Start(rec.Run.ID); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("run created", "run_id", rec.Run.ID, "scenarios", len(cfg.Scenarios))
	s.writeJSON(w, http.StatusCreated, map[string]any{"run": rec.Run})
}

// handleListRuns handles GET /v1/runs
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	recs := s.store.List(limit)
	runs := make([]*models.Run, len(recs))
	for i, rec := range recs {
		runs[i] = rec.Run
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *HTTPServer) handleStopRun(w http.ResponseWriter, runID string) {
	rec, err := s.executor.Stop(runID)
	switch {
	case errors.Is(err, ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRunTerminal):
		s.writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, map[string]any{"run": rec.Run})
	}
}

// handleGetOutputs serves completed-run sub-resources via extract.
func (s *HTTPServer) handleGetOutputs(w http.ResponseWriter, r *http.Request, runID string, extract func(*RunRecord) any) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+runID)
		return
	}
	if rec.Set == nil {
		s.writeError(w, http.StatusConflict, "run is "+string(rec.Run.Status)+", results not available")
		return
	}
	s.writeJSON(w, http.StatusOK, extract(rec))
}

// handleGetTrajectory handles GET /v1/runs/{id}/trajectory?scenario=name
func (s *HTTPServer) handleGetTrajectory(w http.ResponseWriter, r *http.Request, runID string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+runID)
		return
	}
	if rec.Set == nil {
		s.writeError(w, http.StatusConflict, "run is "+string(rec.Run.Status)+", results not available")
		return
	}

	name := r.URL.Query().Get("scenario")
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "scenario query parameter is required")
		return
	}
	var res *epidemic.Result
	for _, candidate := range rec.Set.Results {
		if candidate.Scenario == name {
			res = candidate
			break
		}
	}
	if res == nil {
		s.writeError(w, http.StatusNotFound, "scenario not found: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"scenario":   res.Scenario,
		"seed":       res.Seed,
		"trajectory": res.Trajectory,
	})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}
