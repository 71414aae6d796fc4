package solver

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type periodDemand struct {
	subject    uint64
	occurrence int
}

// sufficientCapacity checks a necessary condition for feasibility: every
// required period occurrence can be matched to a distinct cell its teacher can
// take, and the week (under the daily cap) has room for all of them. A false
// result proves the model unsatisfiable; a true result proves nothing.
func sufficientCapacity(state constraintState) (bool, error) {
	demand := lo.Sum(state.periods)

	perDay := int(state.slots)
	if state.maxPeriodsPerDay != nil {
		perDay = min(perDay, *state.maxPeriodsPerDay)
	}
	if demand > perDay*int(state.days) {
		return false, nil
	}

	demands := make([]any, 0, demand)
	for subject, periods := range state.periods {
		for occurrence := range periods {
			demands = append(demands, periodDemand{subject: uint64(subject), occurrence: occurrence})
		}
	}

	cells := make([]any, 0, state.days*state.slots)
	for day := range state.days {
		for slot := range state.slots {
			cells = append(cells, [2]uint64{day, slot})
		}
	}

	// A period may take a cell when its subject's teacher is available there
	neighbors := func(demandAny any, cellAny any) (bool, error) {
		required := demandAny.(periodDemand)
		cell := cellAny.([2]uint64)
		return state.evaluator.Available(required.subject, cell[0], cell[1]), nil
	}

	graph, err := bipartitegraph.NewBipartiteGraph(demands, cells, neighbors)
	if err != nil {
		return false, err
	}

	return len(graph.LargestMatching()) == len(demands), nil
}
