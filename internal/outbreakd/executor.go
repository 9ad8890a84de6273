package outbreakd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/scenario"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/models"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

// RunExecutor manages asynchronous run execution and per-run cancellation.
type RunExecutor struct {
	store     *RunStore
	collector *Collector
	archive   *SummaryArchive // optional, nil disables persistence
	logger    *slog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	done    sync.WaitGroup
}

func NewRunExecutor(store *RunStore, collector *Collector, archive *SummaryArchive, logger *slog.Logger) *RunExecutor {
	return &RunExecutor{
		store:     store,
		collector: collector,
		archive:   archive,
		logger:    logger,
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously.
// Returns the updated run state (running) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}
	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status == models.RunStatusRunning {
		return rec, nil
	}
	if rec.Run.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, models.RunStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	e.collector.RunStarted()
	e.done.Add(1)
	go e.execute(ctx, runID)
	return updated, nil
}

// Stop cancels a running run. Stopping a terminal run is an error,
// stopping an unknown run is ErrRunNotFound.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}
	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	e.mu.Lock()
	cancel, exists := e.cancels[runID]
	e.mu.Unlock()
	if exists {
		cancel()
		return rec, nil
	}

	// Pending run with no goroutine yet: mark cancelled directly.
	updated, err := e.store.SetStatus(runID, models.RunStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	e.logger.Info("run cancelled before start", "run_id", runID)
	return updated, nil
}

// Wait blocks until all in-flight runs have finished.
func (e *RunExecutor) Wait() {
	e.done.Wait()
}

func (e *RunExecutor) execute(ctx context.Context, runID string) {
	defer e.done.Done()
	defer func() {
		e.mu.Lock()
		delete(e.cancels, runID)
		e.mu.Unlock()
	}()

	rec, ok := e.store.Get(runID)
	if !ok {
		return
	}

	start := time.Now()
	set, err := e.runScenarios(ctx, rec)
	switch {
	case errors.Is(err, context.Canceled):
		e.collector.RunCancelled()
		if _, serr := e.store.SetStatus(runID, models.RunStatusCancelled, ""); serr != nil {
			e.logger.Error("status update failed", "run_id", runID, "error", serr)
		}
		e.logger.Info("run cancelled", "run_id", runID)
	case err != nil:
		e.collector.RunFailed()
		if _, serr := e.store.SetStatus(runID, models.RunStatusFailed, err.Error()); serr != nil {
			e.logger.Error("status update failed", "run_id", runID, "error", serr)
		}
		e.logger.Error("run failed", "run_id", runID, "error", err)
	default:
		if serr := e.store.SetResult(runID, set); serr != nil {
			e.logger.Error("result attach failed", "run_id", runID, "error", serr)
		}
		e.collector.RunCompleted(time.Since(start))
		if _, serr := e.store.SetStatus(runID, models.RunStatusCompleted, ""); serr != nil {
			e.logger.Error("status update failed", "run_id", runID, "error", serr)
		}
		e.persist(runID, set)
		e.logger.Info("run completed", "run_id", runID,
			"scenarios", len(set.Summaries), "best", set.Best.Scenario,
			"elapsed", time.Since(start))
	}
}

func (e *RunExecutor) runScenarios(ctx context.Context, rec *RunRecord) (*scenario.SetResult, error) {
	plan, err := scenario.NewPlan(rec.Config)
	if err != nil {
		return nil, err
	}
	runner := scenario.NewRunner(plan, e.logger.With("run_id", rec.Run.ID))
	return runner.RunAll(ctx)
}

func (e *RunExecutor) persist(runID string, set *scenario.SetResult) {
	if e.archive == nil {
		return
	}
	if err := e.archive.SaveSet(runID, set); err != nil {
		e.logger.Error("summary persistence failed", "run_id", runID, "error", err)
	}
}
