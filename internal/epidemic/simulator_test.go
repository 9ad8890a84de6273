package epidemic

import (
	"context"
	"testing"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/contact"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/roster"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/logger"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

func testGraphs(t *testing.T, size int, seed int64) (*contact.Graph, *contact.Graph) {
	t.Helper()
	cfg := config.Default()
	cfg.Population.Size = size
	r, err := roster.Generate(cfg.Population, utils.NewRandSource(seed))
	if err != nil {
		t.Fatalf("roster generate failed: %v", err)
	}
	base, err := contact.BuildBaseline(r, cfg.Population, cfg.Contact, utils.NewRandSource(seed))
	if err != nil {
		t.Fatalf("baseline build failed: %v", err)
	}
	quar := contact.BuildQuarantine(base, cfg.Contact, utils.NewRandSource(seed))
	return base, quar
}

func testParams(t *testing.T) Params {
	t.Helper()
	p, err := FromDisease(config.Default().Disease)
	if err != nil {
		t.Fatalf("params derivation failed: %v", err)
	}
	return p
}

func mustRun(t *testing.T, cfg RunConfig) *Result {
	t.Helper()
	sim, err := NewSimulator(cfg, logger.NewText("error", testWriter{t}))
	if err != nil {
		t.Fatalf("simulator construction failed: %v", err)
	}
	res, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return res
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestConservationAndMonotonicity(t *testing.T) {
	base, _ := testGraphs(t, 500, 1)
	res := mustRun(t, RunConfig{
		Scenario:          "baseline",
		Baseline:          base,
		Params:            testParams(t),
		InitialInfectious: 20,
		InitialExposed:    5,
		Days:              40,
		Seed:              1,
	})

	if len(res.Trajectory) != 41 {
		t.Fatalf("expected 41 trajectory entries, got %d", len(res.Trajectory))
	}
	prev := res.Trajectory[0]
	if prev.Total() != 500 {
		t.Fatalf("day 0 census %d != population 500", prev.Total())
	}
	for _, day := range res.Trajectory[1:] {
		if day.Total() != 500 {
			t.Fatalf("day %d census %d != population 500", day.Day, day.Total())
		}
		if day.S > prev.S {
			t.Fatalf("S increased on day %d", day.Day)
		}
		if day.R < prev.R {
			t.Fatalf("R decreased on day %d", day.Day)
		}
		if day.F < prev.F {
			t.Fatalf("F decreased on day %d", day.Day)
		}
		prev = day
	}
}

func TestZeroBetaNobodyLeavesS(t *testing.T) {
	base, _ := testGraphs(t, 300, 2)
	p := testParams(t)
	p.Beta = 0
	res := mustRun(t, RunConfig{
		Scenario:          "no-transmission",
		Baseline:          base,
		Params:            p,
		InitialInfectious: 10,
		InitialExposed:    5,
		Days:              30,
		Seed:              2,
	})

	initialS := res.Trajectory[0].S
	for _, day := range res.Trajectory {
		if day.NewInfections != 0 {
			t.Fatalf("new infections with beta=0 on day %d", day.Day)
		}
	}
	if res.FinalCounts().S != initialS {
		t.Fatalf("S changed with beta=0: %d -> %d", initialS, res.FinalCounts().S)
	}
}

func TestFixedSeedBitIdentical(t *testing.T) {
	base, quar := testGraphs(t, 400, 3)
	cfg := RunConfig{
		Scenario:          "repro",
		Baseline:          base,
		Quarantine:        quar,
		Params:            testParams(t),
		Schedule:          NewSchedule(Checkpoint{Day: 8, Kind: ActionActivateQuarantine}),
		InitialInfectious: 15,
		InitialExposed:    5,
		Days:              30,
		Seed:              99,
	}
	a := mustRun(t, cfg)
	// Schedules carry an applied cursor; a fresh one is part of a fresh run.
	cfg.Schedule = NewSchedule(Checkpoint{Day: 8, Kind: ActionActivateQuarantine})
	b := mustRun(t, cfg)

	for i := range a.Trajectory {
		if a.Trajectory[i] != b.Trajectory[i] {
			t.Fatalf("trajectories diverge at day %d: %+v vs %+v", i, a.Trajectory[i], b.Trajectory[i])
		}
	}
}

func TestCabinTransmissionTenAgents(t *testing.T) {
	// 10 agents in 5 cabins, one infectious seed. Beta is set high
	// enough that the cabinmate's per-day infection probability clamps
	// to 1, so exposure happens on day 1 regardless of the draw.
	base, _ := testGraphs(t, 10, 4)
	p := testParams(t)
	p.Beta = 2.0
	res := mustRun(t, RunConfig{
		Scenario:          "cabin-pair",
		Baseline:          base,
		Params:            p,
		InitialInfectious: 1,
		Days:              60,
		Seed:              4,
	})

	if res.Trajectory[1].NewInfections < 1 {
		t.Fatalf("cabinmate not exposed on day 1")
	}
	if res.ProbabilityClamps == 0 {
		t.Fatalf("expected clamped probabilities to be flagged")
	}
	// With a 5-day mean incubation and 7-day mean infectious period,
	// resolution is all but certain well inside 60 days.
	final := res.FinalCounts()
	if final.R+final.F == 0 {
		t.Fatalf("no agent resolved to R or F by day 60")
	}
}

func TestQuarantineCheckpointCutsNextDayInfections(t *testing.T) {
	base, quar := testGraphs(t, 1000, 5)
	p := testParams(t)
	day := 5

	run := func(withCheckpoint bool) *Result {
		var sched *Schedule
		if withCheckpoint {
			sched = NewSchedule(
				Checkpoint{Day: day, Kind: ActionActivateQuarantine},
				Checkpoint{Day: day, Kind: ActionSetBetaDiscount, Value: 0.2},
			)
		}
		return mustRun(t, RunConfig{
			Scenario:          "quarantine-compare",
			Baseline:          base,
			Quarantine:        quar,
			Params:            p,
			Schedule:          sched,
			InitialInfectious: 100,
			InitialExposed:    20,
			Days:              day + 2,
			Seed:              5,
		})
	}

	without := run(false)
	with := run(true)

	// Identical streams up to the checkpoint day.
	for d := 0; d <= day; d++ {
		if without.Trajectory[d] != with.Trajectory[d] {
			t.Fatalf("trajectories diverged before checkpoint at day %d", d)
		}
	}
	if with.Trajectory[day+1].NewInfections >= without.Trajectory[day+1].NewInfections {
		t.Fatalf("quarantine did not cut day-%d infections: %d vs %d",
			day+1, with.Trajectory[day+1].NewInfections, without.Trajectory[day+1].NewInfections)
	}
}

func TestVaccinationReducesAttack(t *testing.T) {
	base, _ := testGraphs(t, 600, 6)
	p := testParams(t)

	unvaccinated := mustRun(t, RunConfig{
		Scenario:          "none",
		Baseline:          base,
		Params:            p,
		InitialInfectious: 30,
		Days:              60,
		Seed:              6,
	})

	vacc := make([]VaccinationClass, 600)
	for i := range vacc {
		vacc[i] = VaccinationOneDose
	}
	vaccinated := mustRun(t, RunConfig{
		Scenario:          "one-dose-all",
		Baseline:          base,
		Params:            p,
		Vaccination:       vacc,
		InitialInfectious: 30,
		Days:              60,
		Seed:              6,
	})

	if vaccinated.FinalCounts().S <= unvaccinated.FinalCounts().S {
		t.Fatalf("vaccination did not protect: final S %d vs %d",
			vaccinated.FinalCounts().S, unvaccinated.FinalCounts().S)
	}
}

func TestDegenerateRuns(t *testing.T) {
	base, _ := testGraphs(t, 100, 7)
	p := testParams(t)

	// No seeded cases: nothing ever happens.
	quiet := mustRun(t, RunConfig{
		Scenario: "quiet",
		Baseline: base,
		Params:   p,
		Days:     20,
		Seed:     7,
	})
	for _, day := range quiet.Trajectory {
		if day.S != 100 || day.NewInfections != 0 {
			t.Fatalf("empty seeding produced activity on day %d: %+v", day.Day, day)
		}
	}

	// Whole population seeded infectious: no susceptibles, clean run.
	burned := mustRun(t, RunConfig{
		Scenario:          "burned-out",
		Baseline:          base,
		Params:            p,
		InitialInfectious: 100,
		Days:              60,
		Seed:              7,
	})
	if burned.FinalCounts().S != 0 {
		t.Fatalf("expected no susceptibles, got %d", burned.FinalCounts().S)
	}

	// Zero-day horizon: only the initial census.
	instant := mustRun(t, RunConfig{
		Scenario:          "instant",
		Baseline:          base,
		Params:            p,
		InitialInfectious: 5,
		Days:              0,
		Seed:              7,
	})
	if len(instant.Trajectory) != 1 {
		t.Fatalf("expected single census, got %d entries", len(instant.Trajectory))
	}
}

func TestEmptyPopulationRunsCleanly(t *testing.T) {
	cfg := config.Default()
	empty := &roster.Roster{}
	base, err := contact.BuildBaseline(empty, cfg.Population, cfg.Contact, utils.NewRandSource(1))
	if err != nil {
		t.Fatalf("empty baseline build failed: %v", err)
	}
	res := mustRun(t, RunConfig{
		Scenario: "empty",
		Baseline: base,
		Params:   testParams(t),
		Days:     10,
		Seed:     1,
	})
	for _, day := range res.Trajectory {
		if day.Total() != 0 {
			t.Fatalf("empty population produced census %+v", day)
		}
	}
}

func TestConstructionErrors(t *testing.T) {
	base, _ := testGraphs(t, 50, 8)
	p := testParams(t)
	log := logger.NewText("error", testWriter{t})

	if _, err := NewSimulator(RunConfig{Params: p, Days: 10}, log); err == nil {
		t.Fatalf("expected error for missing baseline graph")
	}
	if _, err := NewSimulator(RunConfig{Baseline: base, Params: p, Days: -1}, log); err == nil {
		t.Fatalf("expected error for negative horizon")
	}
	if _, err := NewSimulator(RunConfig{
		Baseline: base, Params: p, Days: 10,
		Schedule: NewSchedule(Checkpoint{Day: 2, Kind: ActionActivateQuarantine}),
	}, log); err == nil {
		t.Fatalf("expected error for quarantine schedule without quarantine graph")
	}
	if _, err := NewSimulator(RunConfig{
		Baseline: base, Params: p, Days: 10,
		Vaccination: make([]VaccinationClass, 3),
	}, log); err == nil {
		t.Fatalf("expected error for vaccination length mismatch")
	}
	if _, err := NewSimulator(RunConfig{
		Baseline: base, Params: p, Days: 10, InitialInfectious: -1,
	}, log); err == nil {
		t.Fatalf("expected error for negative seeding")
	}
}

func TestFromDiseaseValidation(t *testing.T) {
	d := config.Default().Disease
	d.IncubationDays = 0
	if _, err := FromDisease(d); err == nil {
		t.Fatalf("expected error for zero incubation")
	}
	d = config.Default().Disease
	d.InfectiousDays = -1
	if _, err := FromDisease(d); err == nil {
		t.Fatalf("expected error for negative infectious period")
	}
	d = config.Default().Disease
	d.TransmissionRate = -0.1
	if _, err := FromDisease(d); err == nil {
		t.Fatalf("expected error for negative transmission rate")
	}

	p, err := FromDisease(config.Default().Disease)
	if err != nil {
		t.Fatalf("default disease should derive: %v", err)
	}
	if p.Sigma != 1.0/5 || p.Gamma != 1.0/7 {
		t.Fatalf("unexpected rates sigma=%f gamma=%f", p.Sigma, p.Gamma)
	}
	if p.Mu != 0.013*p.Gamma {
		t.Fatalf("unexpected fatality rate %f", p.Mu)
	}
}

func TestTestingIsolationSlowsSpread(t *testing.T) {
	base, _ := testGraphs(t, 800, 9)
	p := testParams(t)

	run := func(rate float64) *Result {
		cfg := RunConfig{
			Scenario:          "testing",
			Baseline:          base,
			Params:            p,
			InitialInfectious: 40,
			Days:              40,
			Seed:              9,
		}
		cfg.Params.TestingRate = rate
		return mustRun(t, cfg)
	}

	none := run(0)
	heavy := run(1.0)

	if heavy.FinalCounts().S <= none.FinalCounts().S {
		t.Fatalf("aggressive testing did not reduce spread: final S %d vs %d",
			heavy.FinalCounts().S, none.FinalCounts().S)
	}
}
