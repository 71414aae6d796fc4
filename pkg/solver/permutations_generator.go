package solver

import "math"

// unassigned marks a coordinate the generator has not fixed yet
const unassigned = math.MaxUint64

// placementPredicate prunes (day, slot, subject) coordinates. A predicate
// must accept any coordinate it reads while that coordinate is unassigned.
type placementPredicate = func(permutation []uint64) bool

type permutationGenerator interface {
	// ConstrainedPermutations lists every (day, slot, subject) triple accepted by all the predicates
	ConstrainedPermutations(constraints []placementPredicate) [][]uint64
}

func newPermutationGenerator(days, slots, subjects uint64) permutationGenerator {
	return &placementGenerator{domains: []uint64{days, slots, subjects}}
}

type placementGenerator struct {
	domains []uint64
}

func (generator placementGenerator) ConstrainedPermutations(constraints []placementPredicate) [][]uint64 {
	placements := make([][]uint64, 0, generator.domains[0]*generator.domains[1]*generator.domains[2])
	partial := []uint64{unassigned, unassigned, unassigned}
	generator.extend(constraints, partial, 0, &placements)
	return placements
}

// extend fixes the coordinate at depth and descends while every predicate holds
func (generator placementGenerator) extend(constraints []placementPredicate, partial []uint64, depth int, placements *[][]uint64) {
	if depth == len(generator.domains) {
		*placements = append(*placements, append([]uint64(nil), partial...))
		return
	}

	for value := uint64(0); value < generator.domains[depth]; value++ {
		partial[depth] = value
		if acceptsAll(constraints, partial) {
			generator.extend(constraints, partial, depth+1, placements)
		}
	}
	partial[depth] = unassigned
}

func acceptsAll(constraints []placementPredicate, partial []uint64) bool {
	for _, constraint := range constraints {
		if !constraint(partial) {
			return false
		}
	}
	return true
}
