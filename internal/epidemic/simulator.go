// Package epidemic implements the discrete-day stochastic SEIRF state
// machine over a contact graph. One run owns a private per-agent state
// vector and a single seeded RNG stream consumed in a fixed
// agent-then-neighbor order, so a run is bit-reproducible from its seed.
package epidemic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/contact"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// State is an agent's epidemic compartment
type State uint8

const (
	StateSusceptible State = iota
	StateExposed
	StateInfectious
	StateRecovered
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateSusceptible:
		return "S"
	case StateExposed:
		return "E"
	case StateInfectious:
		return "I"
	case StateRecovered:
		return "R"
	case StateFatal:
		return "F"
	default:
		return "?"
	}
}

// DayCounts is the compartment census at the end of one simulated day,
// plus the number of S->E transitions recorded on that day.
type DayCounts struct {
	Day           int `json:"day"`
	S             int `json:"s"`
	E             int `json:"e"`
	I             int `json:"i"`
	R             int `json:"r"`
	F             int `json:"f"`
	NewInfections int `json:"new_infections"`
}

// Total returns the population accounted for on this day
func (d DayCounts) Total() int {
	return d.S + d.E + d.I + d.R + d.F
}

// RunConfig configures one scenario run of the simulator.
type RunConfig struct {
	Scenario   string
	Baseline   *contact.Graph
	Quarantine *contact.Graph
	Params     Params
	Schedule   *Schedule

	// Vaccination is the static per-agent assignment; nil means
	// unvaccinated. When non-nil its length must equal the population.
	Vaccination []VaccinationClass

	InitialInfectious int
	InitialExposed    int
	Days              int
	Seed              int64
}

// Result is the full output of a completed run.
type Result struct {
	Scenario string `json:"scenario"`
	Seed     int64  `json:"seed"`

	// Trajectory[0] is the seeded initial census (day 0); entry d is the
	// census at the end of day d. Length is Days+1.
	Trajectory []DayCounts `json:"trajectory"`

	// ProbabilityClamps counts transmission probabilities that fell
	// outside [0,1] and were clamped. Nonzero means the configuration
	// produced out-of-range products; it is reported, never hidden.
	ProbabilityClamps int `json:"probability_clamps,omitempty"`
}

// FinalCounts returns the last day's census
func (r *Result) FinalCounts() DayCounts {
	return r.Trajectory[len(r.Trajectory)-1]
}

// Simulator advances a population day by day over the active graph.
type Simulator struct {
	cfg      RunConfig
	logger   *slog.Logger
	rng      *utils.RandSource
	active   *contact.Graph
	beta     float64
	testRate float64

	states   []State
	isolated []bool

	clamps int
}

// NewSimulator validates the run configuration and seeds the initial
// compartments. Degenerate configurations (zero population, zero seeds)
// are valid and produce trivial runs.
func NewSimulator(cfg RunConfig, logger *slog.Logger) (*Simulator, error) {
	if cfg.Baseline == nil {
		return nil, fmt.Errorf("baseline graph is required")
	}
	if cfg.Days < 0 {
		return nil, fmt.Errorf("day horizon cannot be negative, got %d", cfg.Days)
	}
	if cfg.InitialInfectious < 0 || cfg.InitialExposed < 0 {
		return nil, fmt.Errorf("initial compartment seeds cannot be negative")
	}
	if cfg.Schedule.HasAction(ActionActivateQuarantine) && cfg.Quarantine == nil {
		return nil, fmt.Errorf("schedule activates quarantine but no quarantine graph was provided")
	}
	n := cfg.Baseline.Roster.Size()
	if cfg.Vaccination != nil && len(cfg.Vaccination) != n {
		return nil, fmt.Errorf("vaccination assignment length %d does not match population %d", len(cfg.Vaccination), n)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Simulator{
		cfg:      cfg,
		logger:   logger,
		rng:      utils.NewRandSource(cfg.Seed),
		active:   cfg.Baseline,
		beta:     cfg.Params.Beta,
		testRate: cfg.Params.TestingRate,
		states:   make([]State, n),
		isolated: make([]bool, n),
	}
	s.seedInitial()
	return s, nil
}

func (s *Simulator) seedInitial() {
	n := len(s.states)
	nI := utils.MinInt(s.cfg.InitialInfectious, n)
	nE := utils.MinInt(s.cfg.InitialExposed, n-nI)
	picked := s.rng.SampleInts(n, nI+nE)
	for i, id := range picked {
		if i < nI {
			s.states[id] = StateInfectious
		} else {
			s.states[id] = StateExposed
		}
	}
}

// Run executes the full day horizon and returns the trajectory. The
// context is only consulted between days; a cancelled run is abandoned
// wholesale, never resumed.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	n := len(s.states)
	res := &Result{
		Scenario:   s.cfg.Scenario,
		Seed:       s.cfg.Seed,
		Trajectory: make([]DayCounts, 0, s.cfg.Days+1),
	}
	res.Trajectory = append(res.Trajectory, s.census(0, 0))

	s.logger.Info("simulation starting",
		"scenario", s.cfg.Scenario,
		"population", n,
		"days", s.cfg.Days,
		"seed", s.cfg.Seed)

	pProgress := dailyProb(s.cfg.Params.Sigma)
	pFatal := dailyProb(s.cfg.Params.Mu)
	pRecover := dailyProb(s.cfg.Params.Gamma)

	for day := 0; day < s.cfg.Days; day++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("run abandoned at day %d: %w", day, ctx.Err())
		default:
		}

		s.applyCheckpoints(day)

		// Transitions on this step read the compartment census as of
		// the start of the day; next holds the end-of-day states.
		next := make([]State, n)
		copy(next, s.states)
		newInfections := 0

		for id := 0; id < n; id++ {
			switch s.states[id] {
			case StateSusceptible:
				if s.infectionTrial(id) {
					next[id] = StateExposed
					newInfections++
				}
			case StateExposed:
				if s.rng.BernoulliBool(pProgress) {
					next[id] = StateInfectious
				}
			case StateInfectious:
				// Fatal is evaluated first and dominates; both draws
				// always happen so the stream layout stays fixed.
				fatal := s.rng.BernoulliBool(pFatal)
				recovered := s.rng.BernoulliBool(pRecover)
				switch {
				case fatal:
					next[id] = StateFatal
				case recovered:
					next[id] = StateRecovered
				default:
					if s.testRate > 0 && !s.isolated[id] {
						tested := s.rng.BernoulliBool(s.testRate)
						positive := s.rng.BernoulliBool(s.cfg.Params.TestSensitivity)
						if tested && positive {
							s.isolated[id] = true
						}
					}
				}
			}
		}

		s.states = next
		counts := s.census(day+1, newInfections)
		if counts.Total() != n {
			return nil, fmt.Errorf("compartment conservation violated on day %d: %d accounted, population %d",
				day+1, counts.Total(), n)
		}
		res.Trajectory = append(res.Trajectory, counts)
	}

	res.ProbabilityClamps = s.clamps
	final := res.FinalCounts()
	s.logger.Info("simulation finished",
		"scenario", s.cfg.Scenario,
		"final_s", final.S,
		"final_r", final.R,
		"final_f", final.F,
		"probability_clamps", s.clamps)
	return res, nil
}

// infectionTrial runs independent Bernoulli trials against the
// infectious, non-isolated neighbors in adjacency order. First success
// wins: the agent moves to E once per day at most, and no further draws
// are consumed for it after the winning trial.
func (s *Simulator) infectionTrial(id int) bool {
	susceptibility := 1.0
	if s.cfg.Vaccination != nil {
		susceptibility = s.cfg.Params.Susceptibility(s.cfg.Vaccination[id])
	}
	for _, nb := range s.active.Neighbors(id) {
		if s.states[nb.ID] != StateInfectious || s.isolated[nb.ID] {
			continue
		}
		p := s.beta * nb.Weight * susceptibility
		if p < 0 || p > 1 {
			s.clamps++
			if s.clamps == 1 {
				s.logger.Warn("transmission probability out of range, clamping",
					"scenario", s.cfg.Scenario, "p", p)
			}
			p = utils.ClampFloat64(p, 0, 1)
		}
		if s.rng.BernoulliBool(p) {
			return true
		}
	}
	return false
}

func (s *Simulator) applyCheckpoints(day int) {
	for _, cp := range s.cfg.Schedule.Due(day) {
		switch cp.Kind {
		case ActionActivateQuarantine:
			s.active = s.cfg.Quarantine
		case ActionSetBetaDiscount:
			s.beta = s.cfg.Params.Beta * cp.Value
		case ActionSetTestingRate:
			s.testRate = utils.ClampFloat64(cp.Value, 0, 1)
		}
		s.logger.Info("checkpoint applied",
			"scenario", s.cfg.Scenario,
			"day", day,
			"action", cp.Kind.String(),
			"value", cp.Value)
	}
}

func (s *Simulator) census(day, newInfections int) DayCounts {
	c := DayCounts{Day: day, NewInfections: newInfections}
	for _, st := range s.states {
		switch st {
		case StateSusceptible:
			c.S++
		case StateExposed:
			c.E++
		case StateInfectious:
			c.I++
		case StateRecovered:
			c.R++
		case StateFatal:
			c.F++
		}
	}
	return c
}
