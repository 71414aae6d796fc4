package verifier

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/classtimetable/pkg/model"
)

// Advisor contributes extra free-text warnings about a timetable, e.g. a
// reviewer that understands the natural-language rules the package came from.
// Advisors never affect errors or the verdict.
type Advisor interface {
	Advise(ctx context.Context, timetable model.Timetable, constraints model.ConstraintPackage) ([]string, error)
}

// AdvisorFunc adapts a function to the Advisor interface
type AdvisorFunc func(ctx context.Context, timetable model.Timetable, constraints model.ConstraintPackage) ([]string, error)

func (f AdvisorFunc) Advise(ctx context.Context, timetable model.Timetable, constraints model.ConstraintPackage) ([]string, error) {
	return f(ctx, timetable, constraints)
}

// Verifier re-derives hard-constraint satisfaction from a timetable alone,
// without trusting whoever produced it.
type Verifier struct {
	advisors []Advisor
	logger   *zap.Logger
}

func New(logger *zap.Logger, advisors ...Advisor) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{advisors: advisors, logger: logger}
}

func (verifier *Verifier) Verify(ctx context.Context, timetable model.Timetable, constraints model.ConstraintPackage) model.VerificationResult {
	errors := hardErrors(timetable, constraints.Hard)

	warnings := preferredWindowWarnings(timetable, constraints)
	for _, advisor := range verifier.advisors {
		advice, err := advisor.Advise(ctx, timetable, constraints)
		if err != nil {
			verifier.logger.Warn("advisor failed, its warnings are dropped", zap.Error(err))
			continue
		}
		warnings = append(warnings, advice...)
	}

	return model.VerificationResult{
		Passed:   len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

func hardErrors(timetable model.Timetable, hard model.HardConstraints) []string {
	errors := make([]string, 0)

	//** Periods per week
	counts := lo.CountValuesBy(timetable.Assignments, func(assignment model.AssignedCell) string {
		return assignment.SubjectID
	})
	for _, subject := range hard.Subjects {
		if counts[subject.ID] != subject.PeriodsPerWeek {
			errors = append(errors, fmt.Sprintf("Subject %v has %d periods; requires %d.", subject.ID, counts[subject.ID], subject.PeriodsPerWeek))
		}
	}

	//** Assignment consistency and teacher availability
	for _, assignment := range timetable.Assignments {
		if !slices.Contains(hard.Days, assignment.Day) || !slices.Contains(hard.SlotNames, assignment.Slot) {
			errors = append(errors, fmt.Sprintf("Assignment in %v %v lies outside the week grid.", assignment.Day, assignment.Slot))
		}

		subject, ok := hard.Subject(assignment.SubjectID)
		if !ok {
			errors = append(errors, fmt.Sprintf("Assignment in %v %v references unknown subject %v.", assignment.Day, assignment.Slot, assignment.SubjectID))
		} else if subject.TeacherID != assignment.TeacherID {
			errors = append(errors, fmt.Sprintf("Subject %v is taught by %v, not %v.", subject.ID, subject.TeacherID, assignment.TeacherID))
		}

		teacher, ok := hard.Teacher(assignment.TeacherID)
		if !ok {
			errors = append(errors, fmt.Sprintf("Assignment in %v %v references unknown teacher %v.", assignment.Day, assignment.Slot, assignment.TeacherID))
			continue
		}
		if !teacher.Available(assignment.Day, assignment.Slot) {
			errors = append(errors, fmt.Sprintf("Teacher %v not available on %v %v.", teacher.ID, assignment.Day, assignment.Slot))
		}
	}

	//** Single occupancy, from a fresh scan
	seen := make(map[[2]string]bool, len(timetable.Assignments))
	for _, assignment := range timetable.Assignments {
		key := [2]string{assignment.Day, assignment.Slot}
		if seen[key] {
			errors = append(errors, fmt.Sprintf("Duplicate assignment in %v %v.", assignment.Day, assignment.Slot))
		}
		seen[key] = true
	}

	//** Daily cap
	if hard.MaxPeriodsPerDay != nil {
		perDay := lo.CountValuesBy(timetable.Assignments, func(assignment model.AssignedCell) string {
			return assignment.Day
		})
		for _, day := range hard.Days {
			if perDay[day] > *hard.MaxPeriodsPerDay {
				errors = append(errors, fmt.Sprintf("Day %v has %d periods; the cap is %d.", day, perDay[day], *hard.MaxPeriodsPerDay))
			}
		}
	}

	return errors
}

// preferredWindowWarnings reports every known subject whose well-formed
// windows are all unmet. Windows naming unknown subjects, days or slots are ignored.
func preferredWindowWarnings(timetable model.Timetable, constraints model.ConstraintPackage) []string {
	hard := constraints.Hard
	grid := timetable.Grid()

	warnings := make([]string, 0)
	subjects := lo.Keys(constraints.Soft.PreferredWindows)
	slices.Sort(subjects)
	for _, subject := range subjects {
		if _, ok := hard.Subject(subject); !ok {
			continue
		}

		considered, honoured := 0, false
		for _, token := range constraints.Soft.PreferredWindows[subject] {
			day, slot, ok := model.ParseWindow(token)
			if !ok || !slices.Contains(hard.Days, day) || !slices.Contains(hard.SlotNames, slot) {
				continue
			}
			considered++
			if cell, ok := grid.Cell(day, slot); ok && cell.SubjectID == subject {
				honoured = true
				break
			}
		}

		if considered > 0 && !honoured {
			warnings = append(warnings, fmt.Sprintf("Preferred window unmet for subject %v.", subject))
		}
	}
	return warnings
}
