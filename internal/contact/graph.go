// Package contact builds the weighted multi-relation contact graph over
// a roster. Edges accumulate contact duration from every relation that
// links a pair (cabin, cohort, service, random); one transmission weight
// is derived from the summed duration. Graphs are immutable once built;
// the quarantine variant is a new graph derived from the baseline, not a
// mutation of it.
package contact

import (
	"fmt"
	"math"
	"sort"

	"github.com/GoSim-25-26J-441/outbreak-core/internal/roster"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/config"
	"github.com/GoSim-25-26J-441/outbreak-core/pkg/utils"
)

// Type classifies the dominant relation behind an edge
type Type int

const (
	TypeCabin Type = iota
	TypeCohort
	TypeService
	TypeRandom
)

func (t Type) String() string {
	switch t {
	case TypeCabin:
		return "cabin"
	case TypeCohort:
		return "cohort"
	case TypeService:
		return "service"
	case TypeRandom:
		return "random"
	default:
		return "unknown"
	}
}

// Edge is an unordered agent pair with its accumulated contact duration
// and the derived transmission weight in [0,1). A is always < B.
type Edge struct {
	A, B     int
	Type     Type
	Duration float64 // hours per day
	Weight   float64
}

// Neighbor is one adjacency entry: the peer agent and the edge weight.
type Neighbor struct {
	ID     int
	Weight float64
}

// Graph is a read-only contact structure: the roster it was built over,
// the edge list, and per-agent adjacency for the simulator's neighbor
// scans. Adjacency lists are sorted by peer ID so RNG consumption order
// is fixed for a given graph.
type Graph struct {
	Roster    *roster.Roster
	Edges     []Edge
	adjacency [][]Neighbor
}

// Neighbors returns the adjacency list for an agent
func (g *Graph) Neighbors(id int) []Neighbor {
	return g.adjacency[id]
}

// EdgeCount returns the number of edges in the graph
func (g *Graph) EdgeCount() int {
	return len(g.Edges)
}

// Weight converts an accumulated contact duration (hours) into a
// transmission weight using exponential saturation: 1 - exp(-d/D).
// Monotone, concave, and clamped to (0,1) by construction for d>0.
func Weight(duration, saturationHours float64) float64 {
	return 1 - math.Exp(-duration/saturationHours)
}

type pairKey struct {
	a, b int
}

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

type accum struct {
	duration float64
	typ      Type // highest-intensity contributing type
}

// builder accumulates per-pair durations before deriving weights.
type builder struct {
	pairs map[pairKey]*accum
	cfg   config.Contact
	rng   *utils.RandSource
}

func (b *builder) add(a1, a2 int, typ Type, lo, hi float64) {
	if a1 == a2 {
		return
	}
	d := b.rng.UniformFloat64(lo, hi)
	k := keyOf(a1, a2)
	acc, ok := b.pairs[k]
	if !ok {
		b.pairs[k] = &accum{duration: d, typ: typ}
		return
	}
	acc.duration += d
	if typ < acc.typ {
		acc.typ = typ
	}
}

// BuildBaseline constructs the all-relation contact graph for a roster.
func BuildBaseline(r *roster.Roster, p config.Population, c config.Contact, rng *utils.RandSource) (*Graph, error) {
	if c.SaturationHours <= 0 {
		return nil, fmt.Errorf("saturation hours must be positive, got %f", c.SaturationHours)
	}

	b := &builder{
		pairs: make(map[pairKey]*accum),
		cfg:   c,
		rng:   rng,
	}

	// Cabinmates: the longest daily exposure.
	for _, members := range r.Cabins {
		forEachPair(members, func(x, y int) {
			b.add(x, y, TypeCabin, c.CabinHoursMin, c.CabinHoursMax)
		})
	}

	// Cohort co-members, fully pairwise. Passenger cohorts are dining
	// groups; crew cohorts are work teams with longer shared shifts.
	for _, members := range r.Cohorts {
		isCrew := r.Agents[members[0]].Role != roster.RolePassenger
		lo, hi := c.CohortHoursMin, c.CohortHoursMax
		if isCrew {
			lo, hi = c.WorkHoursMin, c.WorkHoursMax
		}
		forEachPair(members, func(x, y int) {
			b.add(x, y, TypeCohort, lo, hi)
		})
	}

	// Service pairs: each passenger-facing crew member serves a sampled
	// subset of passengers. Non-passenger-facing crew never appear here
	// because the pool is the facing-crew partition.
	for _, crewID := range r.FacingCrew {
		if len(r.Passengers) == 0 {
			break
		}
		fanout := rng.IntRange(p.ServiceFanoutMin, p.ServiceFanoutMax)
		for _, idx := range rng.SampleInts(len(r.Passengers), fanout) {
			b.add(crewID, r.Passengers[idx], TypeService, c.ServiceHoursMin, c.ServiceHoursMax)
		}
	}

	// Background transient encounters: a fixed number of random peers
	// per agent across the whole population.
	n := r.Size()
	for id := 0; id < n; id++ {
		for k := 0; k < p.RandomContactsPerAgent; k++ {
			peer := rng.Intn(n)
			if peer == id {
				continue
			}
			b.add(id, peer, TypeRandom, c.RandomHoursMin, c.RandomHoursMax)
		}
	}

	return b.finish(r)
}

func (b *builder) finish(r *roster.Roster) (*Graph, error) {
	edges := make([]Edge, 0, len(b.pairs))
	for k, acc := range b.pairs {
		edges = append(edges, Edge{
			A:        k.a,
			B:        k.b,
			Type:     acc.typ,
			Duration: acc.duration,
			Weight:   Weight(acc.duration, b.cfg.SaturationHours),
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return newGraph(r, edges), nil
}

func newGraph(r *roster.Roster, edges []Edge) *Graph {
	g := &Graph{
		Roster:    r,
		Edges:     edges,
		adjacency: make([][]Neighbor, r.Size()),
	}
	for _, e := range edges {
		g.adjacency[e.A] = append(g.adjacency[e.A], Neighbor{ID: e.B, Weight: e.Weight})
		g.adjacency[e.B] = append(g.adjacency[e.B], Neighbor{ID: e.A, Weight: e.Weight})
	}
	for id := range g.adjacency {
		sort.Slice(g.adjacency[id], func(i, j int) bool {
			return g.adjacency[id][i].ID < g.adjacency[id][j].ID
		})
	}
	return g
}

// BuildQuarantine derives the cabin-isolation graph from a baseline:
// cabin edges survive unchanged, a sampled residual of crew-work cohort
// edges survives at reduced weight, everything else is dropped.
func BuildQuarantine(base *Graph, c config.Contact, rng *utils.RandSource) *Graph {
	edges := make([]Edge, 0, len(base.Edges)/2)
	for _, e := range base.Edges {
		switch e.Type {
		case TypeCabin:
			edges = append(edges, e)
		case TypeCohort:
			crewEdge := base.Roster.Agents[e.A].Role != roster.RolePassenger &&
				base.Roster.Agents[e.B].Role != roster.RolePassenger
			if crewEdge && rng.BernoulliBool(c.QuarantineWorkKeep) {
				kept := e
				kept.Weight = e.Weight * c.QuarantineWorkWeight
				edges = append(edges, kept)
			}
		}
	}
	return newGraph(base.Roster, edges)
}

func forEachPair(members []int, fn func(a, b int)) {
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			fn(members[i], members[j])
		}
	}
}
