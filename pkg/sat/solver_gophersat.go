package sat

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process CDCL solver
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, instance SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndetermined, err)
	}

	cnf := lo.Map(instance.Clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})

	problem := solver.ParseSlice(cnf)
	engine := solver.New(problem)

	switch engine.Solve() {
	case solver.Unsat:
		return nil, nil
	case solver.Indet:
		return nil, ErrUndetermined
	}

	// The engine only knows about variables that occur in some clause; any other variable is unconstrained and reported false
	model := engine.Model()
	solution := make(SATSolution, instance.Variables)
	for i := range solution {
		variable := int64(i + 1)
		if i < len(model) && model[i] {
			solution[i] = variable
		} else {
			solution[i] = -variable
		}
	}
	return solution, nil
}
