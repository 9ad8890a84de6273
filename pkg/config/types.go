package config

// Config is the top-level simulation configuration
type Config struct {
	LogLevel   string       `yaml:"log_level"`
	Population Population   `yaml:"population"`
	Contact    Contact      `yaml:"contact"`
	Disease    Disease      `yaml:"disease"`
	Run        RunSettings  `yaml:"run"`
	Scenarios  []Scenario   `yaml:"scenarios,omitempty"`
	Store      *StoreConfig `yaml:"store,omitempty"`
}

// Population describes the vessel roster structure
type Population struct {
	Size                   int     `yaml:"size"`
	PassengerFraction      float64 `yaml:"passenger_fraction"`
	CrewFacingFraction     float64 `yaml:"crew_facing_fraction"`
	CabinSize              int     `yaml:"cabin_size"`
	CohortSize             int     `yaml:"cohort_size"`
	ServiceFanoutMin       int     `yaml:"service_fanout_min"`
	ServiceFanoutMax       int     `yaml:"service_fanout_max"`
	RandomContactsPerAgent int     `yaml:"random_contacts_per_agent"`
}

// Contact describes contact-duration generation and weighting
type Contact struct {
	// SaturationHours is the calibration constant D in weight = 1-exp(-d/D).
	SaturationHours float64 `yaml:"saturation_hours"`

	CabinHoursMin   float64 `yaml:"cabin_hours_min"`
	CabinHoursMax   float64 `yaml:"cabin_hours_max"`
	CohortHoursMin  float64 `yaml:"cohort_hours_min"`
	CohortHoursMax  float64 `yaml:"cohort_hours_max"`
	WorkHoursMin    float64 `yaml:"work_hours_min"`
	WorkHoursMax    float64 `yaml:"work_hours_max"`
	ServiceHoursMin float64 `yaml:"service_hours_min"`
	ServiceHoursMax float64 `yaml:"service_hours_max"`
	RandomHoursMin  float64 `yaml:"random_hours_min"`
	RandomHoursMax  float64 `yaml:"random_hours_max"`

	// Quarantine derivation: fraction of crew-work edges retained as the
	// operational residual and the weight factor applied to them.
	QuarantineWorkKeep   float64 `yaml:"quarantine_work_keep"`
	QuarantineWorkWeight float64 `yaml:"quarantine_work_weight"`
}

// Disease holds the SEIRF transition calibration
type Disease struct {
	TransmissionRate float64 `yaml:"transmission_rate"`
	IncubationDays   float64 `yaml:"incubation_days"`
	InfectiousDays   float64 `yaml:"infectious_days"`
	MortalityRate    float64 `yaml:"mortality_rate"`
	OneDoseEfficacy  float64 `yaml:"one_dose_efficacy"`
	TwoDoseEfficacy  float64 `yaml:"two_dose_efficacy"`
	TestSensitivity  float64 `yaml:"test_sensitivity"`
}

// RunSettings holds per-run execution parameters
type RunSettings struct {
	Days              int   `yaml:"days"`
	InitialInfectious int   `yaml:"initial_infectious"`
	InitialExposed    int   `yaml:"initial_exposed"`
	Seed              int64 `yaml:"seed"`
}

// Scenario selects an intervention strategy for one run
type Scenario struct {
	Name string `yaml:"name"`
	// Kind is one of: baseline, quarantine, one_dose_all, two_dose_half.
	Kind string `yaml:"kind"`

	// Quarantine scenarios only.
	QuarantineStartDay int     `yaml:"quarantine_start_day,omitempty"`
	BetaDiscount       float64 `yaml:"beta_discount,omitempty"`

	// Optional daily testing rate (0 disables detection-driven isolation).
	TestingRate float64 `yaml:"testing_rate,omitempty"`
}

// StoreConfig configures daemon-side persistence of run summaries
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Scenario kinds accepted in configuration.
const (
	ScenarioBaseline    = "baseline"
	ScenarioQuarantine  = "quarantine"
	ScenarioOneDoseAll  = "one_dose_all"
	ScenarioTwoDoseHalf = "two_dose_half"
)

// Default returns a configuration mirroring the reference vessel study:
// 3,700 people, 70% passengers, cabins of two, cohorts of eight, and
// transition rates calibrated to a 5-day incubation, 7-day infectious
// period and 1.3% case fatality.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Population: Population{
			Size:                   3700,
			PassengerFraction:      0.7,
			CrewFacingFraction:     0.33,
			CabinSize:              2,
			CohortSize:             8,
			ServiceFanoutMin:       8,
			ServiceFanoutMax:       15,
			RandomContactsPerAgent: 2,
		},
		Contact: Contact{
			SaturationHours:      3.0,
			CabinHoursMin:        16,
			CabinHoursMax:        20,
			CohortHoursMin:       1.5,
			CohortHoursMax:       3.0,
			WorkHoursMin:         6,
			WorkHoursMax:         10,
			ServiceHoursMin:      0.1,
			ServiceHoursMax:      0.5,
			RandomHoursMin:       0.05,
			RandomHoursMax:       0.2,
			QuarantineWorkKeep:   0.2,
			QuarantineWorkWeight: 0.3,
		},
		Disease: Disease{
			TransmissionRate: 0.8,
			IncubationDays:   5,
			InfectiousDays:   7,
			MortalityRate:    0.013,
			OneDoseEfficacy:  0.70,
			TwoDoseEfficacy:  0.95,
			TestSensitivity:  0.85,
		},
		Run: RunSettings{
			Days:              60,
			InitialInfectious: 100,
			InitialExposed:    20,
			Seed:              1,
		},
		Scenarios: []Scenario{
			{Name: "baseline", Kind: ScenarioBaseline},
			{Name: "quarantine", Kind: ScenarioQuarantine, QuarantineStartDay: 10, BetaDiscount: 0.2},
			{Name: "vaccination_one_dose_all", Kind: ScenarioOneDoseAll},
			{Name: "vaccination_two_dose_half", Kind: ScenarioTwoDoseHalf},
		},
	}
}
