package outbreakd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/outcome"
	"github.com/GoSim-25-26J-441/outbreak-core/internal/scenario"
)

// SummaryArchive persists completed run summaries to SQLite so results
// survive daemon restarts. Trajectories are not archived; only the
// per-scenario outcome rows.
type SummaryArchive struct {
	db *sql.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS run_summaries (
	run_id              TEXT NOT NULL,
	scenario            TEXT NOT NULL,
	seed                INTEGER NOT NULL,
	population          INTEGER NOT NULL,
	days                INTEGER NOT NULL,
	total_infected      INTEGER NOT NULL,
	attack_rate         REAL NOT NULL,
	total_deaths        INTEGER NOT NULL,
	total_recovered     INTEGER NOT NULL,
	case_fatality_rate  REAL NOT NULL,
	peak_infectious     INTEGER NOT NULL,
	peak_day            INTEGER NOT NULL,
	outbreak_start_day  INTEGER NOT NULL,
	epidemic_duration   INTEGER NOT NULL,
	burned_out          INTEGER NOT NULL,
	daily_new_infections TEXT NOT NULL,
	created_at          TEXT NOT NULL,
	PRIMARY KEY (run_id, scenario)
);
`

// OpenSummaryArchive opens (creating if needed) the archive at path.
func OpenSummaryArchive(path string) (*SummaryArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return &SummaryArchive{db: db}, nil
}

func (a *SummaryArchive) Close() error {
	return a.db.Close()
}

// SaveSet archives every summary of a completed scenario set.
func (a *SummaryArchive) SaveSet(runID string, set *scenario.SetResult) error {
	if set == nil {
		return fmt.Errorf("set result is nil")
	}
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning archive transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range set.Summaries {
		series, err := json.Marshal(s.DailyNewInfections)
		if err != nil {
			return fmt.Errorf("encoding infection series for %s: %w", s.Scenario, err)
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO run_summaries (
				run_id, scenario, seed, population, days,
				total_infected, attack_rate, total_deaths, total_recovered,
				case_fatality_rate,
				peak_infectious, peak_day, outbreak_start_day,
				epidemic_duration, burned_out,
				daily_new_infections, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, s.Scenario, s.Seed, s.Population, s.Days,
			s.TotalInfected, s.AttackRate, s.TotalDeaths, s.TotalRecovered,
			s.CaseFatalityRate,
			s.PeakInfectious, s.PeakDay, s.OutbreakStartDay,
			s.EpidemicDuration, boolToInt(s.BurnedOut),
			string(series), now)
		if err != nil {
			return fmt.Errorf("inserting summary for %s: %w", s.Scenario, err)
		}
	}
	return tx.Commit()
}

// LoadSet reads back the archived summaries for a run, in scenario
// name order.
func (a *SummaryArchive) LoadSet(runID string) ([]*outcome.Summary, error) {
	rows, err := a.db.Query(`
		SELECT scenario, seed, population, days,
			total_infected, attack_rate, total_deaths, total_recovered,
			case_fatality_rate,
			peak_infectious, peak_day, outbreak_start_day,
			epidemic_duration, burned_out,
			daily_new_infections
		FROM run_summaries WHERE run_id = ? ORDER BY scenario`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying summaries for %s: %w", runID, err)
	}
	defer rows.Close()

	var summaries []*outcome.Summary
	for rows.Next() {
		var s outcome.Summary
		var burnedOut int
		var series string
		if err := rows.Scan(&s.Scenario, &s.Seed, &s.Population, &s.Days,
			&s.TotalInfected, &s.AttackRate, &s.TotalDeaths, &s.TotalRecovered,
			&s.CaseFatalityRate,
			&s.PeakInfectious, &s.PeakDay, &s.OutbreakStartDay,
			&s.EpidemicDuration, &burnedOut,
			&series); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		s.BurnedOut = burnedOut != 0
		if err := json.Unmarshal([]byte(series), &s.DailyNewInfections); err != nil {
			return nil, fmt.Errorf("decoding infection series for %s: %w", s.Scenario, err)
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
