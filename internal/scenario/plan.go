package scenario

import (
	"fmt"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/contact"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/epidemic"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/roster"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// Plan holds the shared world for a scenario set: one roster and one
// pair of contact graphs, built once from the root seed, that every
// scenario in the set runs against. Only the intervention differs
// between runs, so outcome differences are attributable to it.
type Plan struct {
	Config     *config.Config
	Roster     *roster.Roster
	Baseline   *contact.Graph
	Quarantine *contact.Graph
	Params     epidemic.Params
}

// NewPlan builds the shared roster and contact graphs from the
// configuration's root seed.
func NewPlan(cfg *config.Config) (*Plan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rng := utils.NewRandSource(cfg.Run.Seed)
	r, err := roster.Generate(cfg.Population, rng)
	if err != nil {
		return nil, fmt.Errorf("generating roster: %w", err)
	}
	base, err := contact.BuildBaseline(r, cfg.Population, cfg.Contact, rng)
	if err != nil {
		return nil, fmt.Errorf("building baseline graph: %w", err)
	}
	quar := contact.BuildQuarantine(base, cfg.Contact, rng)

	params, err := epidemic.FromDisease(cfg.Disease)
	if err != nil {
		return nil, fmt.Errorf("deriving disease parameters: %w", err)
	}

	return &Plan{
		Config:     cfg,
		Roster:     r,
		Baseline:   base,
		Quarantine: quar,
		Params:     params,
	}, nil
}

// RunConfig assembles the simulator configuration for one scenario.
// The seed is the scenario's own stream, derived from the root seed by
// the caller so that scenarios stay independent and reproducible.
func (p *Plan) RunConfig(sc config.Scenario, seed int64) (epidemic.RunConfig, error) {
	rc := epidemic.RunConfig{
		Scenario:          sc.Name,
		Baseline:          p.Baseline,
		Params:            p.Params,
		InitialInfectious: p.Config.Run.InitialInfectious,
		InitialExposed:    p.Config.Run.InitialExposed,
		Days:              p.Config.Run.Days,
		Seed:              seed,
	}

	var checkpoints []epidemic.Checkpoint
	switch sc.Kind {
	case config.ScenarioBaseline:
		// No intervention.
	case config.ScenarioQuarantine:
		rc.Quarantine = p.Quarantine
		checkpoints = append(checkpoints,
			epidemic.Checkpoint{Day: sc.QuarantineStartDay, Kind: epidemic.ActionActivateQuarantine})
		if sc.BetaDiscount > 0 {
			checkpoints = append(checkpoints,
				epidemic.Checkpoint{Day: sc.QuarantineStartDay, Kind: epidemic.ActionSetBetaDiscount, Value: sc.BetaDiscount})
		}
	case config.ScenarioOneDoseAll:
		rc.Vaccination = uniformVaccination(p.Roster.Size(), epidemic.VaccinationOneDose)
	case config.ScenarioTwoDoseHalf:
		rc.Vaccination = halfVaccination(p.Roster.Size(), epidemic.VaccinationTwoDose, utils.NewRandSource(seed).Derive())
	default:
		return epidemic.RunConfig{}, fmt.Errorf("unknown scenario kind %q", sc.Kind)
	}

	if sc.TestingRate > 0 {
		day := 0
		if sc.Kind == config.ScenarioQuarantine {
			day = sc.QuarantineStartDay
		}
		checkpoints = append(checkpoints,
			epidemic.Checkpoint{Day: day, Kind: epidemic.ActionSetTestingRate, Value: sc.TestingRate})
	}
	if len(checkpoints) > 0 {
		rc.Schedule = epidemic.NewSchedule(checkpoints...)
	}
	return rc, nil
}

func uniformVaccination(n int, class epidemic.VaccinationClass) []epidemic.VaccinationClass {
	v := make([]epidemic.VaccinationClass, n)
	for i := range v {
		v[i] = class
	}
	return v
}

// halfVaccination covers a uniformly sampled half of the roster.
func halfVaccination(n int, class epidemic.VaccinationClass, rng *utils.RandSource) []epidemic.VaccinationClass {
	v := make([]epidemic.VaccinationClass, n)
	for _, id := range rng.SampleInts(n, n/2) {
		v[id] = class
	}
	return v
}
