package outcome

import (
	"fmt"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/epidemic"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// ExtinctionThreshold is the infectious count below which the outbreak
// is considered over once the peak has passed.
const ExtinctionThreshold = 5

// Summary aggregates one scenario run into outcome measures
type Summary struct {
	Scenario   string `json:"scenario"`
	Population int    `json:"population"`
	Days       int    `json:"days"`
	Seed       int64  `json:"seed"`

	TotalInfected  int     `json:"total_infected"`
	AttackRate     float64 `json:"attack_rate"`
	TotalDeaths    int     `json:"total_deaths"`
	TotalRecovered int     `json:"total_recovered"`
	// CaseFatalityRate is deaths over resolved cases (R+F), zero when
	// nothing resolved.
	CaseFatalityRate float64 `json:"case_fatality_rate"`

	PeakInfectious int `json:"peak_infectious"`
	PeakDay        int `json:"peak_day"`
	// OutbreakStartDay is the first day the infectious count reached
	// ExtinctionThreshold, or -1 if it never did.
	OutbreakStartDay int `json:"outbreak_start_day"`
	// EpidemicDuration is the first post-peak day with fewer than
	// ExtinctionThreshold infectious agents, or the horizon if the
	// outbreak never burned out.
	EpidemicDuration int  `json:"epidemic_duration"`
	BurnedOut        bool `json:"burned_out"`

	DailyNewInfections []int `json:"daily_new_infections"`
}

// Summarize reduces a completed run to its outcome summary.
func Summarize(res *epidemic.Result) (*Summary, error) {
	if res == nil {
		return nil, fmt.Errorf("result is nil")
	}
	if len(res.Trajectory) == 0 {
		return nil, fmt.Errorf("result has no trajectory")
	}

	initial := res.Trajectory[0]
	final := res.FinalCounts()
	population := initial.Total()

	infectious := make([]int, len(res.Trajectory))
	newInfections := make([]int, len(res.Trajectory))
	for i, day := range res.Trajectory {
		infectious[i] = day.I
		newInfections[i] = day.NewInfections
	}
	peak, peakDay := utils.MaxIntIndex(infectious)

	s := &Summary{
		Scenario:           res.Scenario,
		Population:         population,
		Days:               len(res.Trajectory) - 1,
		Seed:               res.Seed,
		TotalInfected:      population - final.S,
		TotalDeaths:        final.F,
		TotalRecovered:     final.R,
		PeakInfectious:     peak,
		PeakDay:            peakDay,
		DailyNewInfections: newInfections,
	}
	if population > 0 {
		s.AttackRate = float64(s.TotalInfected) / float64(population)
	}
	if resolved := final.R + final.F; resolved > 0 {
		s.CaseFatalityRate = float64(final.F) / float64(resolved)
	}

	s.OutbreakStartDay = -1
	for day, count := range infectious {
		if count >= ExtinctionThreshold {
			s.OutbreakStartDay = day
			break
		}
	}

	s.EpidemicDuration = s.Days
	for day := peakDay + 1; day < len(res.Trajectory); day++ {
		if res.Trajectory[day].I < ExtinctionThreshold {
			s.EpidemicDuration = day
			s.BurnedOut = true
			break
		}
	}
	return s, nil
}
