package solver

import (
	"sync"

	"github.com/samber/lo"

	"github.com/limaJavier/classtimetable/pkg/sat"
)

type constraintState struct {
	evaluator predicateEvaluator
	indexer   indexer
	generator permutationGenerator

	days,
	slots,
	subjects uint64

	periods          []int // Periods per week of each subject
	maxPeriodsPerDay *int
}

// constraintSet holds the clauses and the cardinality constraints produced by one constraint function
type constraintSet struct {
	clauses       [][]int64
	cardinalities []sat.Cardinality
}

type constraintFunc func(state constraintState) constraintSet

// available returns the (day, slot, subject) permutations whose subject's teacher is available
func available(state constraintState) [][]uint64 {
	return state.generator.ConstrainedPermutations([]placementPredicate{
		// Available(s, d, t) = 1
		func(permutation []uint64) bool {
			day, slot, subject := permutation[0], permutation[1], permutation[2]

			return day == unassigned ||
				slot == unassigned ||
				subject == unassigned ||

				// Actual predicate
				state.evaluator.Available(subject, day, slot)
		},
	})
}

// At most one subject occupies each (day, slot)
func occupancyConstraints(state constraintState) constraintSet {
	perCell := lo.GroupBy(available(state), func(permutation []uint64) [2]uint64 {
		return [2]uint64{permutation[0], permutation[1]}
	})

	clauses := make([][]int64, 0)
	for day := range state.days {
		for slot := range state.slots {
			permutations := perCell[[2]uint64{day, slot}]
			// Due to the nature of the iteration process subjects within a cell are strictly increasing, hence each pair is visited once
			for i := 0; i < len(permutations)-1; i++ {
				for j := i + 1; j < len(permutations); j++ {
					index1 := state.indexer.Index(day, slot, permutations[i][2])
					index2 := state.indexer.Index(day, slot, permutations[j][2])
					clauses = append(clauses, []int64{-int64(index1), -int64(index2)})
				}
			}
		}
	}

	return constraintSet{clauses: clauses}
}

// Every subject occupies exactly its periods per week
func periodConstraints(state constraintState) constraintSet {
	perSubject := lo.GroupBy(available(state), func(permutation []uint64) uint64 {
		return permutation[2]
	})

	cardinalities := make([]sat.Cardinality, 0, state.subjects)
	for subject := range state.subjects {
		literals := lo.Map(perSubject[subject], func(permutation []uint64, _ int) int64 {
			return int64(state.indexer.Index(permutation[0], permutation[1], permutation[2]))
		})
		cardinalities = append(cardinalities, sat.Exactly(state.periods[subject], literals...))
	}

	return constraintSet{cardinalities: cardinalities}
}

// A subject cannot be placed where its teacher is unavailable
func availabilityConstraints(state constraintState) constraintSet {
	permutations := state.generator.ConstrainedPermutations([]placementPredicate{
		// Available(s, d, t) = 0
		func(permutation []uint64) bool {
			day, slot, subject := permutation[0], permutation[1], permutation[2]

			return day == unassigned ||
				slot == unassigned ||
				subject == unassigned ||

				// Actual predicate
				!state.evaluator.Available(subject, day, slot)
		},
	})

	clauses := make([][]int64, 0, len(permutations))
	for _, permutation := range permutations {
		index := state.indexer.Index(permutation[0], permutation[1], permutation[2])
		clauses = append(clauses, []int64{-int64(index)})
	}

	return constraintSet{clauses: clauses}
}

// The whole class has at most maxPeriodsPerDay periods each day
func dailyCapConstraints(state constraintState) constraintSet {
	if state.maxPeriodsPerDay == nil {
		return constraintSet{}
	}

	perDay := lo.GroupBy(available(state), func(permutation []uint64) uint64 {
		return permutation[0]
	})

	cardinalities := make([]sat.Cardinality, 0, state.days)
	for day := range state.days {
		literals := lo.Map(perDay[day], func(permutation []uint64, _ int) int64 {
			return int64(state.indexer.Index(permutation[0], permutation[1], permutation[2]))
		})
		cardinalities = append(cardinalities, sat.AtMost(*state.maxPeriodsPerDay, literals...))
	}

	return constraintSet{cardinalities: cardinalities}
}

// buildSat runs every constraint function on its own goroutine and merges
// their output in declaration order, so equal inputs give equal instances.
// Cardinality constraints are encoded last since they allocate auxiliary
// variables above the decision variables.
func buildSat(variables uint64, constraints []constraintFunc, state constraintState) sat.SAT {
	satInstance := sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	sets := make([]constraintSet, len(constraints))
	var wg sync.WaitGroup
	for i, constraint := range constraints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sets[i] = constraint(state)
		}()
	}
	wg.Wait()

	for _, set := range sets {
		satInstance.AddClauses(set.clauses...)
	}
	for _, set := range sets {
		for _, cardinality := range set.cardinalities {
			satInstance.AddCardinality(cardinality)
		}
	}

	return satInstance
}
