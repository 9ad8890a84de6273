package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/epidemic"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/outcome"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// SetResult is the output of one scenario set: per-scenario runs and
// summaries in configuration order, comparisons against the baseline
// scenario when one is configured, and the best summary by attack rate.
type SetResult struct {
	Results     []*epidemic.Result    `json:"-"`
	Summaries   []*outcome.Summary    `json:"summaries"`
	Comparisons []*outcome.Comparison `json:"comparisons,omitempty"`
	Best        *outcome.Summary      `json:"best"`
	Elapsed     time.Duration         `json:"elapsed"`
}

// Runner executes scenario sets against a shared plan.
type Runner struct {
	plan   *Plan
	logger *slog.Logger
	// MaxParallel bounds concurrent scenario runs; zero means unbounded.
	MaxParallel int
}

func NewRunner(plan *Plan, logger *slog.Logger) *Runner {
	return &Runner{plan: plan, logger: logger}
}

// RunAll executes every configured scenario concurrently. Scenario
// seeds are derived from the root seed in configuration order before
// any goroutine starts, so results do not depend on scheduling.
func (r *Runner) RunAll(ctx context.Context) (*SetResult, error) {
	return r.runSet(ctx, r.plan.Config.Scenarios)
}

func (r *Runner) runSet(ctx context.Context, scenarios []config.Scenario) (*SetResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios configured")
	}

	root := utils.NewRandSource(r.plan.Config.Run.Seed)
	seeds := make([]int64, len(scenarios))
	for i := range seeds {
		seeds[i] = root.Int63()
	}

	start := time.Now()
	results := make([]*epidemic.Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	if r.MaxParallel > 0 {
		g.SetLimit(r.MaxParallel)
	}
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			rc, err := r.plan.RunConfig(sc, seeds[i])
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			sim, err := epidemic.NewSimulator(rc, r.logger.With("scenario", sc.Name))
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			res, err := sim.Run(ctx)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &SetResult{Results: results, Elapsed: time.Since(start)}
	for _, res := range results {
		s, err := outcome.Summarize(res)
		if err != nil {
			return nil, fmt.Errorf("summarizing %s: %w", res.Scenario, err)
		}
		set.Summaries = append(set.Summaries, s)
	}

	if baseline := r.baselineSummary(scenarios, set.Summaries); baseline != nil {
		cs, err := outcome.CompareAll(baseline, set.Summaries)
		if err != nil {
			return nil, err
		}
		set.Comparisons = cs
	}

	best, err := outcome.Best(set.Summaries)
	if err != nil {
		return nil, err
	}
	set.Best = best

	r.logger.Info("scenario set complete",
		"scenarios", len(scenarios),
		"best", best.Scenario,
		"elapsed", set.Elapsed)
	return set, nil
}

func (r *Runner) baselineSummary(scenarios []config.Scenario, summaries []*outcome.Summary) *outcome.Summary {
	for i, sc := range scenarios {
		if sc.Kind == config.ScenarioBaseline {
			return summaries[i]
		}
	}
	return nil
}

// StartDayOutcome pairs a quarantine start day with its run summary.
type StartDayOutcome struct {
	StartDay int              `json:"start_day"`
	Summary  *outcome.Summary `json:"summary"`
}

// SweepQuarantineStart runs the given quarantine scenario once per
// candidate start day, reusing the scenario's other settings. Each
// start day gets the same derived seed, so only the timing varies.
func (r *Runner) SweepQuarantineStart(ctx context.Context, sc config.Scenario, startDays []int) ([]StartDayOutcome, error) {
	if sc.Kind != config.ScenarioQuarantine {
		return nil, fmt.Errorf("scenario %s is %s, want %s", sc.Name, sc.Kind, config.ScenarioQuarantine)
	}
	if len(startDays) == 0 {
		return nil, fmt.Errorf("no start days given")
	}

	seed := utils.NewRandSource(r.plan.Config.Run.Seed).Int63()
	outcomes := make([]StartDayOutcome, len(startDays))
	g, ctx := errgroup.WithContext(ctx)
	if r.MaxParallel > 0 {
		g.SetLimit(r.MaxParallel)
	}
	for i, day := range startDays {
		i, day := i, day
		g.Go(func() error {
			if day < 0 || day >= r.plan.Config.Run.Days {
				return fmt.Errorf("start day %d outside horizon [0,%d)", day, r.plan.Config.Run.Days)
			}
			variant := sc
			variant.QuarantineStartDay = day
			variant.Name = fmt.Sprintf("%s@%d", sc.Name, day)

			rc, err := r.plan.RunConfig(variant, seed)
			if err != nil {
				return err
			}
			sim, err := epidemic.NewSimulator(rc, r.logger.With("scenario", variant.Name))
			if err != nil {
				return err
			}
			res, err := sim.Run(ctx)
			if err != nil {
				return err
			}
			s, err := outcome.Summarize(res)
			if err != nil {
				return err
			}
			outcomes[i] = StartDayOutcome{StartDay: day, Summary: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("sweep complete",
		"scenario", sc.Name,
		"start_days", len(startDays),
		"mean_attack_rate", MeanAttackRate(outcomes))
	return outcomes, nil
}

// MeanAttackRate averages the attack rates across a sweep's outcomes.
func MeanAttackRate(outcomes []StartDayOutcome) float64 {
	rates := make([]float64, len(outcomes))
	for i, o := range outcomes {
		rates[i] = o.Summary.AttackRate
	}
	return utils.Mean(rates)
}
