// Package roster generates the agent population of a vessel: passengers
// and crew with immutable role, cabin and cohort assignments. The
// partitions produced here are the only source of structured contact
// edges, so role separation is enforced when the partitions are built,
// never by filtering afterwards.
package roster

import (
	"fmt"

	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// Role classifies an agent within the vessel population
type Role int

const (
	RolePassenger Role = iota
	RoleCrewFacing
	RoleCrewNonFacing
)

func (r Role) String() string {
	switch r {
	case RolePassenger:
		return "passenger"
	case RoleCrewFacing:
		return "crew_facing"
	case RoleCrewNonFacing:
		return "crew_non_facing"
	default:
		return "unknown"
	}
}

// CabinUnassigned flags an agent left without a cabin partner when a
// role class has an odd remainder under pairwise cabin occupancy.
const CabinUnassigned = -1

// Agent is one member of the population. Role, cabin and cohort are
// fixed at generation time; only the simulator mutates epidemic state,
// and it does so in its own per-run vectors.
type Agent struct {
	ID     int
	Role   Role
	Cabin  int
	Cohort int
}

// Roster is the generated population plus its partition indices.
type Roster struct {
	Agents []Agent

	// Cabins and Cohorts map partition id to member agent IDs. Cohorts
	// are single-role by construction: passengers, passenger-facing crew
	// and non-passenger-facing crew are partitioned separately, so a
	// non-passenger-facing crew member can never co-occur with a
	// passenger in any cohort.
	Cabins  [][]int
	Cohorts [][]int

	Passengers []int
	FacingCrew []int
	OtherCrew  []int
}

// Size returns the population size
func (r *Roster) Size() int {
	return len(r.Agents)
}

// Generate creates a roster from the population configuration using the
// supplied random source for all partition shuffles.
func Generate(p config.Population, rng *utils.RandSource) (*Roster, error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("population size must be positive, got %d", p.Size)
	}
	if p.CabinSize < 2 {
		return nil, fmt.Errorf("cabin size must be at least 2, got %d", p.CabinSize)
	}
	if p.CohortSize < 2 {
		return nil, fmt.Errorf("cohort size must be at least 2, got %d", p.CohortSize)
	}
	if p.PassengerFraction <= 0 || p.PassengerFraction >= 1 {
		return nil, fmt.Errorf("passenger fraction must be in (0,1), got %f", p.PassengerFraction)
	}

	nPassengers := int(float64(p.Size) * p.PassengerFraction)
	if nPassengers < 1 {
		nPassengers = 1
	}
	if nPassengers >= p.Size {
		nPassengers = p.Size - 1
	}
	nCrew := p.Size - nPassengers
	nFacing := int(float64(nCrew) * p.CrewFacingFraction)

	r := &Roster{
		Agents: make([]Agent, p.Size),
	}
	for id := 0; id < p.Size; id++ {
		var role Role
		switch {
		case id < nPassengers:
			role = RolePassenger
		case id < nPassengers+nFacing:
			role = RoleCrewFacing
		default:
			role = RoleCrewNonFacing
		}
		r.Agents[id] = Agent{ID: id, Role: role, Cabin: CabinUnassigned, Cohort: -1}
		switch role {
		case RolePassenger:
			r.Passengers = append(r.Passengers, id)
		case RoleCrewFacing:
			r.FacingCrew = append(r.FacingCrew, id)
		case RoleCrewNonFacing:
			r.OtherCrew = append(r.OtherCrew, id)
		}
	}

	// Cabins: passengers bunk with passengers, crew with crew. A lone
	// remainder stays cabin-less rather than forming a single-occupancy
	// cabin; larger remainders become a smaller final cabin.
	crew := make([]int, 0, nCrew)
	crew = append(crew, r.FacingCrew...)
	crew = append(crew, r.OtherCrew...)
	r.assignCabins(r.Passengers, p.CabinSize, rng)
	r.assignCabins(crew, p.CabinSize, rng)

	// Cohorts: a shuffled partition per role class into fixed-size
	// groups, remainder dropped into a smaller final group.
	r.assignCohorts(r.Passengers, p.CohortSize, rng)
	r.assignCohorts(r.FacingCrew, p.CohortSize, rng)
	r.assignCohorts(r.OtherCrew, p.CohortSize, rng)

	return r, nil
}

func (r *Roster) assignCabins(ids []int, size int, rng *utils.RandSource) {
	members := shuffled(ids, rng)
	for start := 0; start < len(members); start += size {
		end := start + size
		if end > len(members) {
			end = len(members)
		}
		group := members[start:end]
		if len(group) < 2 {
			// cabin-less remainder
			continue
		}
		cabinID := len(r.Cabins)
		r.Cabins = append(r.Cabins, append([]int(nil), group...))
		for _, id := range group {
			r.Agents[id].Cabin = cabinID
		}
	}
}

func (r *Roster) assignCohorts(ids []int, size int, rng *utils.RandSource) {
	members := shuffled(ids, rng)
	for start := 0; start < len(members); start += size {
		end := start + size
		if end > len(members) {
			end = len(members)
		}
		group := members[start:end]
		if len(group) < 2 {
			continue
		}
		cohortID := len(r.Cohorts)
		r.Cohorts = append(r.Cohorts, append([]int(nil), group...))
		for _, id := range group {
			r.Agents[id].Cohort = cohortID
		}
	}
}

func shuffled(ids []int, rng *utils.RandSource) []int {
	out := append([]int(nil), ids...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
