package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads, parses and validates a configuration file.
// Omitted sections fall back to defaults before validation.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfigYAML parses YAML bytes into a validated Config
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = Default().Scenarios
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate performs validation on the configuration
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validatePopulation(&cfg.Population); err != nil {
		return fmt.Errorf("population validation failed: %w", err)
	}
	if err := validateContact(&cfg.Contact); err != nil {
		return fmt.Errorf("contact validation failed: %w", err)
	}
	if err := validateDisease(&cfg.Disease); err != nil {
		return fmt.Errorf("disease validation failed: %w", err)
	}
	if err := validateRun(&cfg.Run); err != nil {
		return fmt.Errorf("run validation failed: %w", err)
	}
	if err := validateScenarios(cfg.Scenarios, cfg.Run.Days); err != nil {
		return fmt.Errorf("scenarios validation failed: %w", err)
	}
	return nil
}

func validatePopulation(p *Population) error {
	if p.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", p.Size)
	}
	if p.PassengerFraction <= 0 || p.PassengerFraction >= 1 {
		return fmt.Errorf("passenger_fraction must be in (0,1), got %f", p.PassengerFraction)
	}
	if p.CrewFacingFraction < 0 || p.CrewFacingFraction > 1 {
		return fmt.Errorf("crew_facing_fraction must be in [0,1], got %f", p.CrewFacingFraction)
	}
	if p.CabinSize < 2 {
		return fmt.Errorf("cabin_size must be at least 2, got %d", p.CabinSize)
	}
	if p.CohortSize < 2 {
		return fmt.Errorf("cohort_size must be at least 2, got %d", p.CohortSize)
	}
	if p.ServiceFanoutMin < 0 || p.ServiceFanoutMax < p.ServiceFanoutMin {
		return fmt.Errorf("service fanout range [%d,%d] is invalid", p.ServiceFanoutMin, p.ServiceFanoutMax)
	}
	if p.RandomContactsPerAgent < 0 {
		return fmt.Errorf("random_contacts_per_agent cannot be negative, got %d", p.RandomContactsPerAgent)
	}
	return nil
}

func validateContact(c *Contact) error {
	if c.SaturationHours <= 0 {
		return fmt.Errorf("saturation_hours must be positive, got %f", c.SaturationHours)
	}
	ranges := []struct {
		name     string
		min, max float64
	}{
		{"cabin_hours", c.CabinHoursMin, c.CabinHoursMax},
		{"cohort_hours", c.CohortHoursMin, c.CohortHoursMax},
		{"work_hours", c.WorkHoursMin, c.WorkHoursMax},
		{"service_hours", c.ServiceHoursMin, c.ServiceHoursMax},
		{"random_hours", c.RandomHoursMin, c.RandomHoursMax},
	}
	for _, r := range ranges {
		if r.min < 0 || r.max < r.min {
			return fmt.Errorf("%s range [%f,%f] is invalid", r.name, r.min, r.max)
		}
	}
	if c.QuarantineWorkKeep < 0 || c.QuarantineWorkKeep > 1 {
		return fmt.Errorf("quarantine_work_keep must be in [0,1], got %f", c.QuarantineWorkKeep)
	}
	if c.QuarantineWorkWeight < 0 || c.QuarantineWorkWeight > 1 {
		return fmt.Errorf("quarantine_work_weight must be in [0,1], got %f", c.QuarantineWorkWeight)
	}
	return nil
}

func validateDisease(d *Disease) error {
	if d.TransmissionRate < 0 {
		return fmt.Errorf("transmission_rate cannot be negative, got %f", d.TransmissionRate)
	}
	if d.IncubationDays <= 0 {
		return fmt.Errorf("incubation_days must be positive, got %f", d.IncubationDays)
	}
	if d.InfectiousDays <= 0 {
		return fmt.Errorf("infectious_days must be positive, got %f", d.InfectiousDays)
	}
	if d.MortalityRate < 0 || d.MortalityRate > 1 {
		return fmt.Errorf("mortality_rate must be in [0,1], got %f", d.MortalityRate)
	}
	if d.OneDoseEfficacy < 0 || d.OneDoseEfficacy > 1 {
		return fmt.Errorf("one_dose_efficacy must be in [0,1], got %f", d.OneDoseEfficacy)
	}
	if d.TwoDoseEfficacy < 0 || d.TwoDoseEfficacy > 1 {
		return fmt.Errorf("two_dose_efficacy must be in [0,1], got %f", d.TwoDoseEfficacy)
	}
	if d.TestSensitivity < 0 || d.TestSensitivity > 1 {
		return fmt.Errorf("test_sensitivity must be in [0,1], got %f", d.TestSensitivity)
	}
	return nil
}

func validateRun(r *RunSettings) error {
	if r.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", r.Days)
	}
	if r.InitialInfectious < 0 {
		return fmt.Errorf("initial_infectious cannot be negative, got %d", r.InitialInfectious)
	}
	if r.InitialExposed < 0 {
		return fmt.Errorf("initial_exposed cannot be negative, got %d", r.InitialExposed)
	}
	return nil
}

func validateScenarios(scenarios []Scenario, days int) error {
	validKinds := map[string]bool{
		ScenarioBaseline:    true,
		ScenarioQuarantine:  true,
		ScenarioOneDoseAll:  true,
		ScenarioTwoDoseHalf: true,
	}
	names := make(map[string]bool)
	for i, sc := range scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name cannot be empty", i)
		}
		if names[sc.Name] {
			return fmt.Errorf("duplicate scenario name: %s", sc.Name)
		}
		names[sc.Name] = true
		if !validKinds[sc.Kind] {
			return fmt.Errorf("scenario %s: invalid kind %q", sc.Name, sc.Kind)
		}
		if sc.Kind == ScenarioQuarantine {
			if sc.QuarantineStartDay < 0 || sc.QuarantineStartDay >= days {
				return fmt.Errorf("scenario %s: quarantine_start_day %d outside run horizon [0,%d)", sc.Name, sc.QuarantineStartDay, days)
			}
			if sc.BetaDiscount < 0 || sc.BetaDiscount > 1 {
				return fmt.Errorf("scenario %s: beta_discount must be in [0,1], got %f", sc.Name, sc.BetaDiscount)
			}
		}
		if sc.TestingRate < 0 || sc.TestingRate > 1 {
			return fmt.Errorf("scenario %s: testing_rate must be in [0,1], got %f", sc.Name, sc.TestingRate)
		}
	}
	return nil
}
