package epidemic

import "sort"

// ActionKind identifies an intervention action applied at a checkpoint
type ActionKind int

const (
	// ActionActivateQuarantine swaps the active graph to the quarantine
	// variant for the remainder of the run.
	ActionActivateQuarantine ActionKind = iota
	// ActionSetBetaDiscount sets the transmission multiplier: the
	// effective beta becomes base beta times Value. Absolute, so
	// re-application is a no-op.
	ActionSetBetaDiscount
	// ActionSetTestingRate sets the daily testing rate driving
	// detection-based isolation of infectious agents.
	ActionSetTestingRate
)

func (k ActionKind) String() string {
	switch k {
	case ActionActivateQuarantine:
		return "activate_quarantine"
	case ActionSetBetaDiscount:
		return "set_beta_discount"
	case ActionSetTestingRate:
		return "set_testing_rate"
	default:
		return "unknown"
	}
}

// Checkpoint is a scheduled intervention: on Day, apply Kind with Value.
type Checkpoint struct {
	Day   int
	Kind  ActionKind
	Value float64
}

// Schedule holds checkpoints sorted by day. The simulator queries it
// once per day; every checkpoint due on or before that day and not yet
// applied is returned exactly once, in day order.
type Schedule struct {
	checkpoints []Checkpoint
	applied     int
}

// NewSchedule creates a schedule from checkpoints, sorting them by day.
// The sort is stable so same-day actions apply in the order given.
func NewSchedule(checkpoints ...Checkpoint) *Schedule {
	cps := append([]Checkpoint(nil), checkpoints...)
	sort.SliceStable(cps, func(i, j int) bool {
		return cps[i].Day < cps[j].Day
	})
	return &Schedule{checkpoints: cps}
}

// Due returns the checkpoints due on or before day that have not been
// returned before, advancing the applied cursor past them.
func (s *Schedule) Due(day int) []Checkpoint {
	if s == nil {
		return nil
	}
	start := s.applied
	for s.applied < len(s.checkpoints) && s.checkpoints[s.applied].Day <= day {
		s.applied++
	}
	if s.applied == start {
		return nil
	}
	return s.checkpoints[start:s.applied]
}

// Len returns the total number of checkpoints
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.checkpoints)
}

// HasAction reports whether any checkpoint carries the given action kind
func (s *Schedule) HasAction(kind ActionKind) bool {
	if s == nil {
		return false
	}
	for _, cp := range s.checkpoints {
		if cp.Kind == kind {
			return true
		}
	}
	return false
}
