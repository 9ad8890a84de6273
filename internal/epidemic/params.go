package epidemic

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
)

// VaccinationClass is an agent's static vaccination assignment, fixed
// before the run begins. It modifies only the S->E susceptibility term.
type VaccinationClass int

const (
	VaccinationNone VaccinationClass = iota
	VaccinationOneDose
	VaccinationTwoDose
)

// Params is the immutable transition-rate set for one scenario run.
// Daily rates are converted to per-day probabilities with 1-exp(-rate),
// so the sojourn in each compartment is geometric with the calibrated
// mean (incubation for E, infectious period for I).
type Params struct {
	// Beta is the base per-contact daily transmission rate.
	Beta float64
	// Sigma is the daily E->I progression rate, 1/incubation days.
	Sigma float64
	// Gamma is the daily I->R recovery rate, 1/infectious days.
	Gamma float64
	// Mu is the daily I->F fatality rate, CFR * Gamma, so the expected
	// fatal fraction of resolved cases matches the configured CFR.
	Mu float64

	// Susceptibility multipliers per vaccination class.
	OneDoseSusceptibility float64
	TwoDoseSusceptibility float64

	// Detection-driven isolation. A zero TestingRate disables testing.
	TestingRate     float64
	TestSensitivity float64
}

// FromDisease derives scenario parameters from the disease configuration.
func FromDisease(d config.Disease) (Params, error) {
	if d.IncubationDays <= 0 {
		return Params{}, fmt.Errorf("incubation days must be positive, got %f", d.IncubationDays)
	}
	if d.InfectiousDays <= 0 {
		return Params{}, fmt.Errorf("infectious days must be positive, got %f", d.InfectiousDays)
	}
	if d.TransmissionRate < 0 {
		return Params{}, fmt.Errorf("transmission rate cannot be negative, got %f", d.TransmissionRate)
	}
	gamma := 1 / d.InfectiousDays
	return Params{
		Beta:                  d.TransmissionRate,
		Sigma:                 1 / d.IncubationDays,
		Gamma:                 gamma,
		Mu:                    d.MortalityRate * gamma,
		OneDoseSusceptibility: 1 - d.OneDoseEfficacy,
		TwoDoseSusceptibility: 1 - d.TwoDoseEfficacy,
		TestSensitivity:       d.TestSensitivity,
	}, nil
}

// Susceptibility returns the S->E multiplier for a vaccination class
func (p Params) Susceptibility(v VaccinationClass) float64 {
	switch v {
	case VaccinationOneDose:
		return p.OneDoseSusceptibility
	case VaccinationTwoDose:
		return p.TwoDoseSusceptibility
	default:
		return 1.0
	}
}

// dailyProb converts a continuous daily rate into a per-day probability
func dailyProb(rate float64) float64 {
	return 1 - math.Exp(-rate)
}
