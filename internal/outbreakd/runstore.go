package outbreakd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/scenario"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/models"
)

// RunRecord pairs a run's lifecycle metadata with its inputs and,
// once completed, its outputs.
type RunRecord struct {
	Run    *models.Run
	Config *config.Config
	Set    *scenario.SetResult
}

// RunStore is the daemon's in-memory run registry.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

// Create registers a pending run for the given configuration. An empty
// runID gets a generated UUID.
func (s *RunStore) Create(runID string, cfg *config.Config) (*RunRecord, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = uuid.NewString()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	names := make([]string, len(cfg.Scenarios))
	for i, sc := range cfg.Scenarios {
		names[i] = sc.Name
	}
	rec := &RunRecord{
		Run: &models.Run{
			ID:        runID,
			Scenarios: names,
			Status:    models.RunStatusPending,
			Seed:      cfg.Run.Seed,
			Days:      cfg.Run.Days,
			CreatedAt: time.Now().UTC(),
		},
		Config: cfg,
	}
	s.runs[runID] = rec
	return rec, nil
}

func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	return rec, ok
}

// List returns up to limit records, newest first.
func (s *RunStore) List(limit int) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Run.CreatedAt.After(out[j].Run.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetStatus transitions a run's lifecycle state. Transitions out of a
// terminal status are rejected.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if rec.Run.Status.Terminal() {
		return nil, fmt.Errorf("run %s is already %s", runID, rec.Run.Status)
	}

	now := time.Now().UTC()
	rec.Run.Status = status
	rec.Run.Error = errMsg
	switch status {
	case models.RunStatusRunning:
		rec.Run.StartedAt = now
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		rec.Run.EndedAt = now
		if !rec.Run.StartedAt.IsZero() {
			rec.Run.Duration = now.Sub(rec.Run.StartedAt)
		}
	}
	return rec, nil
}

// SetResult attaches the finished scenario-set output to a run.
func (s *RunStore) SetResult(runID string, set *scenario.SetResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Set = set
	return nil
}
