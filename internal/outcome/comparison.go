package outcome

import "fmt"

// Comparison measures one intervention scenario against the baseline
type Comparison struct {
	Baseline string `json:"baseline"`
	Scenario string `json:"scenario"`

	InfectionsPrevented int     `json:"infections_prevented"`
	PercentReduction    float64 `json:"percent_reduction"`
	DeathsPrevented     int     `json:"deaths_prevented"`
	PeakReduction       int     `json:"peak_reduction"`
	// Improvement is true when the scenario infected strictly fewer
	// agents than the baseline.
	Improvement bool `json:"improvement"`
}

// Compare measures an intervention against a baseline summary.
func Compare(baseline, scenario *Summary) (*Comparison, error) {
	if baseline == nil {
		return nil, fmt.Errorf("baseline summary is nil")
	}
	if scenario == nil {
		return nil, fmt.Errorf("scenario summary is nil")
	}
	if baseline.Population != scenario.Population {
		return nil, fmt.Errorf("population mismatch: baseline %d, scenario %d",
			baseline.Population, scenario.Population)
	}

	c := &Comparison{
		Baseline:            baseline.Scenario,
		Scenario:            scenario.Scenario,
		InfectionsPrevented: baseline.TotalInfected - scenario.TotalInfected,
		DeathsPrevented:     baseline.TotalDeaths - scenario.TotalDeaths,
		PeakReduction:       baseline.PeakInfectious - scenario.PeakInfectious,
	}
	c.Improvement = c.InfectionsPrevented > 0
	if baseline.TotalInfected > 0 {
		c.PercentReduction = 100 * float64(c.InfectionsPrevented) / float64(baseline.TotalInfected)
	}
	return c, nil
}

// CompareAll measures every non-baseline summary against the baseline,
// preserving input order.
func CompareAll(baseline *Summary, scenarios []*Summary) ([]*Comparison, error) {
	comparisons := make([]*Comparison, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Scenario == baseline.Scenario {
			continue
		}
		c, err := Compare(baseline, s)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", s.Scenario, err)
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

// Best returns the summary with the lowest attack rate, breaking ties
// by fewer deaths and then by input order.
func Best(summaries []*Summary) (*Summary, error) {
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no summaries to rank")
	}
	best := summaries[0]
	for _, s := range summaries[1:] {
		if s.AttackRate < best.AttackRate {
			best = s
			continue
		}
		if s.AttackRate == best.AttackRate && s.TotalDeaths < best.TotalDeaths {
			best = s
		}
	}
	return best, nil
}
