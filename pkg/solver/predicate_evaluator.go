package solver

import "github.com/limaJavier/classtimetable/pkg/model"

type predicateEvaluator interface {
	// Checks whether the subject's teacher is available to teach at the given day and slot
	Available(subject, day, slot uint64) bool
}

type matrixPredicateEvaluator struct {
	availability [][][]bool // Subject -> day -> slot
}

// newPredicateEvaluator resolves every subject's teacher availability against the grid once.
// Availability entries naming days or slots outside the grid are ignored.
func newPredicateEvaluator(hard model.HardConstraints) predicateEvaluator {
	teachers := make(map[string]model.Teacher, len(hard.Teachers))
	for _, teacher := range hard.Teachers {
		teachers[teacher.ID] = teacher
	}

	availability := make([][][]bool, len(hard.Subjects))
	for subject, subjectInfo := range hard.Subjects {
		teacher := teachers[subjectInfo.TeacherID]
		availability[subject] = make([][]bool, len(hard.Days))
		for day, dayName := range hard.Days {
			availability[subject][day] = make([]bool, len(hard.SlotNames))
			for slot, slotName := range hard.SlotNames {
				availability[subject][day][slot] = teacher.Available(dayName, slotName)
			}
		}
	}

	return &matrixPredicateEvaluator{availability: availability}
}

func (evaluator *matrixPredicateEvaluator) Available(subject, day, slot uint64) bool {
	return evaluator.availability[subject][day][slot]
}
