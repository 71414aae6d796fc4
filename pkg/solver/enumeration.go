package solver

import (
	"context"
	"errors"
	"slices"

	"github.com/limaJavier/classtimetable/pkg/model"
	"github.com/limaJavier/classtimetable/pkg/sat"
)

// Outcome tells why an enumeration stopped producing timetables
type Outcome int

const (
	// Searching means more timetables may be pulled
	Searching Outcome = iota
	// Exhausted means the search proved that no further timetable exists
	Exhausted
	// Expired means the context was done before the search could answer
	Expired
	// Undetermined means the backend gave up without an answer
	Undetermined
	// Failed means the backend returned an error, see Err
	Failed
)

func (outcome Outcome) String() string {
	switch outcome {
	case Searching:
		return "searching"
	case Exhausted:
		return "exhausted"
	case Expired:
		return "expired"
	case Undetermined:
		return "undetermined"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Enumeration is a lazy, finite sequence of distinct feasible timetables.
// It is consumed like a bufio.Scanner:
//
//	for enumeration.Next() {
//		timetable := enumeration.Timetable()
//	}
//	if err := enumeration.Err(); err != nil { ... }
//
// Stopping early is simply not calling Next again. A consumed enumeration
// cannot be restarted; call Solver.Enumerate again.
type Enumeration struct {
	ctx         context.Context
	backend     sat.SATSolver
	instance    sat.SAT
	indexer     indexer
	constraints model.ConstraintPackage

	current model.Timetable
	found   int
	outcome Outcome
	err     error
}

func newEnumeration(ctx context.Context, backend sat.SATSolver, instance sat.SAT, indexer indexer, constraints model.ConstraintPackage) *Enumeration {
	return &Enumeration{
		ctx:         ctx,
		backend:     backend,
		instance:    instance,
		indexer:     indexer,
		constraints: constraints,
		outcome:     Searching,
	}
}

// exhaustedEnumeration is an enumeration already proved empty
func exhaustedEnumeration() *Enumeration {
	return &Enumeration{outcome: Exhausted}
}

// Next searches for the next distinct timetable. The context is checked
// before every search, never during one.
func (enumeration *Enumeration) Next() bool {
	if enumeration.outcome != Searching {
		return false
	}
	if enumeration.ctx.Err() != nil {
		enumeration.outcome = Expired
		return false
	}

	solution, err := enumeration.backend.Solve(enumeration.ctx, enumeration.instance)
	switch {
	case errors.Is(err, sat.ErrUndetermined):
		if enumeration.ctx.Err() != nil {
			enumeration.outcome = Expired
		} else {
			enumeration.outcome = Undetermined
		}
		return false
	case err != nil:
		enumeration.outcome = Failed
		enumeration.err = err
		return false
	case solution == nil:
		enumeration.outcome = Exhausted
		return false
	}

	timetable, blocking := enumeration.materialize(solution)
	enumeration.current = timetable
	enumeration.found++

	if len(blocking) == 0 {
		// Nothing to block means the empty timetable, which is the only solution
		enumeration.outcome = Exhausted
	} else {
		enumeration.instance.AddClauses(blocking)
	}
	return true
}

// materialize maps the true decision variables back into assigned cells and
// builds the clause excluding this assignment from later searches. Every
// solution has the same number of true decision variables (the sum of the
// periods per week), so forbidding this exact set of positives excludes
// exactly this timetable.
func (enumeration *Enumeration) materialize(solution sat.SATSolution) (model.Timetable, []int64) {
	hard := enumeration.constraints.Hard

	assignments := make([]model.AssignedCell, 0)
	blocking := make([]int64, 0)
	for day, dayName := range hard.Days {
		for slot, slotName := range hard.SlotNames {
			for subject, subjectInfo := range hard.Subjects {
				index := int64(enumeration.indexer.Index(uint64(day), uint64(slot), uint64(subject)))
				if !solution.Value(index) {
					continue
				}
				assignments = append(assignments, model.AssignedCell{
					Day:       dayName,
					Slot:      slotName,
					SubjectID: subjectInfo.ID,
					TeacherID: subjectInfo.TeacherID,
				})
				blocking = append(blocking, -index)
			}
		}
	}

	return model.Timetable{
		ClassName:   hard.ClassName,
		Days:        slices.Clone(hard.Days),
		SlotNames:   slices.Clone(hard.SlotNames),
		Assignments: assignments,
	}, blocking
}

// Timetable returns the timetable found by the last successful call to Next
func (enumeration *Enumeration) Timetable() model.Timetable {
	return enumeration.current
}

// Found returns how many timetables have been produced so far
func (enumeration *Enumeration) Found() int {
	return enumeration.found
}

// Outcome returns Searching while more timetables may follow
func (enumeration *Enumeration) Outcome() Outcome {
	return enumeration.outcome
}

// Err returns the backend error that stopped the enumeration, if any
func (enumeration *Enumeration) Err() error {
	return enumeration.err
}
