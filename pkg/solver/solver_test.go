package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
	"github.com/limaJavier/classtimetable/pkg/model"
	"github.com/limaJavier/classtimetable/pkg/sat"
)

func TestOverConstrainedPackage(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon", "Tue"}, []string{"S1", "S2"}, 2, 2, 2)

	//** Act
	result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 5)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, result.Status)
	assert.Empty(t, result.FeasibleTimetables)
}

func TestExactFitPackage(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon", "Tue", "Wed"}, []string{"S1", "S2"}, 2, 2, 2)

	//** Act
	result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 6)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusFeasible, result.Status)
	require.Len(t, result.FeasibleTimetables, 6)
	for _, timetable := range result.FeasibleTimetables {
		assert.Len(t, timetable.Assignments, 6, "the grid must be fully packed")
		assertFeasible(t, timetable, constraints)
	}
}

func TestTeacherUnavailable(t *testing.T) {
	//** Arrange
	constraints := model.ConstraintPackage{
		Hard: model.HardConstraints{
			Days:        []string{"Mon", "Tue"},
			SlotsPerDay: 1,
			SlotNames:   []string{"S1"},
			Teachers: []model.Teacher{
				{ID: "T1", Availability: map[string][]string{"Mon": {"S1"}}},
			},
			Subjects: []model.Subject{
				{ID: "Math", TeacherID: "T1", PeriodsPerWeek: 2},
			},
		},
		Soft: model.DefaultSoftConstraints(),
	}

	//** Act
	result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 5)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusInfeasible, result.Status)
	assert.Empty(t, result.FeasibleTimetables)
}

func TestExhaustiveEnumeration(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon"}, []string{"S1", "S2", "S3"}, 1, 1)

	//** Act
	result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 100)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, result.Status)
	// Two distinct subjects over three slots: 3 * 2 placements
	assert.Len(t, result.FeasibleTimetables, 6)
	assertDistinct(t, result.FeasibleTimetables)
}

func TestSolverProperties(t *testing.T) {
	packages := []model.ConstraintPackage{
		fullyAvailablePackage([]string{"Mon", "Tue", "Wed"}, []string{"S1", "S2", "S3"}, 3, 2, 1),
		fullyAvailablePackage([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}, []string{"S1", "S2", "S3", "S4"}, 4, 4, 3, 2, 1),
		partiallyAvailablePackage(),
	}

	for i, constraints := range packages {
		t.Run(fmt.Sprintf("package %d", i), func(t *testing.T) {
			//** Act
			result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 10)

			//** Assert
			require.NoError(t, err)
			require.True(t, result.Status.Usable(), "status %v", result.Status)
			require.NotEmpty(t, result.FeasibleTimetables)
			for _, timetable := range result.FeasibleTimetables {
				assertFeasible(t, timetable, constraints)
			}
			assertDistinct(t, result.FeasibleTimetables)
		})
	}
}

func TestDailyCap(t *testing.T) {
	t.Run("Cap too tight", func(t *testing.T) {
		//** Arrange
		constraints := fullyAvailablePackage([]string{"Mon", "Tue"}, []string{"S1", "S2", "S3"}, 3)
		constraints.Hard.MaxPeriodsPerDay = intPointer(1)

		//** Act
		result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 5)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, model.StatusInfeasible, result.Status)
	})

	t.Run("Cap respected", func(t *testing.T) {
		//** Arrange
		constraints := fullyAvailablePackage([]string{"Mon", "Tue"}, []string{"S1", "S2", "S3"}, 2, 1)
		constraints.Hard.MaxPeriodsPerDay = intPointer(2)

		//** Act
		result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 100)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, model.StatusOptimal, result.Status)
		require.NotEmpty(t, result.FeasibleTimetables)
		for _, timetable := range result.FeasibleTimetables {
			assertFeasible(t, timetable, constraints)
			perDay := make(map[string]int)
			for _, assignment := range timetable.Assignments {
				perDay[assignment.Day]++
			}
			for day, count := range perDay {
				assert.LessOrEqual(t, count, 2, "day %v", day)
			}
		}
	})
}

func TestCandidateCap(t *testing.T) {
	constraints := fullyAvailablePackage([]string{"Mon", "Tue", "Wed"}, []string{"S1", "S2"}, 2, 2, 2)

	result, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 1)

	require.NoError(t, err)
	assert.Equal(t, model.StatusFeasible, result.Status)
	assert.Len(t, result.FeasibleTimetables, 1)

	_, err = New(nil, Config{}, nil).Solve(context.Background(), constraints, 0)
	assert.Error(t, err)
}

func TestUnboundedCandidateCap(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon"}, []string{"S1", "S2"}, 1)

	//** Act
	var result model.SolverResult
	var err error
	assert.NotPanics(t, func() {
		result, err = New(nil, Config{}, nil).Solve(context.Background(), constraints, math.MaxInt)
	})

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, result.Status)
	assert.Len(t, result.FeasibleTimetables, 2)
	assertDistinct(t, result.FeasibleTimetables)
}

func TestExpiredBudget(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon", "Tue"}, []string{"S1", "S2"}, 2, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	result, err := New(nil, Config{TimeBudget: time.Second}, nil).Solve(ctx, constraints, 5)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnknown, result.Status)
	assert.Empty(t, result.FeasibleTimetables)
}

func TestBackendOutcomes(t *testing.T) {
	constraints := fullyAvailablePackage([]string{"Mon", "Tue"}, []string{"S1", "S2"}, 2, 1)

	t.Run("Undetermined", func(t *testing.T) {
		backend := stubBackend{err: sat.ErrUndetermined}

		result, err := New(backend, Config{}, nil).Solve(context.Background(), constraints, 5)

		require.NoError(t, err)
		assert.Equal(t, model.StatusUnknown, result.Status)
	})

	t.Run("Failure", func(t *testing.T) {
		failure := errors.New("solver crashed")
		backend := stubBackend{err: failure}

		_, err := New(backend, Config{}, nil).Solve(context.Background(), constraints, 5)

		assert.ErrorIs(t, err, failure)
	})
}

func TestSchemaInvalidPackage(t *testing.T) {
	//** Arrange
	constraints := fullyAvailablePackage([]string{"Mon"}, []string{"S1", "S2"}, 1)
	constraints.Hard.Subjects[0].TeacherID = "ghost"

	//** Act
	_, err := New(nil, Config{}, nil).Solve(context.Background(), constraints, 5)

	//** Assert
	assert.ErrorIs(t, err, appErrors.ErrSchemaInvalid)
}

func TestEnumerationStopsWhenNotPulled(t *testing.T) {
	constraints := fullyAvailablePackage([]string{"Mon", "Tue", "Wed"}, []string{"S1", "S2"}, 2, 2, 2)

	enumeration, err := New(nil, Config{}, nil).Enumerate(context.Background(), constraints)
	require.NoError(t, err)

	require.True(t, enumeration.Next())
	first := enumeration.Timetable()
	require.True(t, enumeration.Next())
	second := enumeration.Timetable()

	assert.False(t, first.Equal(second))
	assert.Equal(t, 2, enumeration.Found())
	assert.Equal(t, Searching, enumeration.Outcome())
	assert.NoError(t, enumeration.Err())
}

func TestIndexerRoundTrip(t *testing.T) {
	days, slots, subjects := uint64(5), uint64(4), uint64(3)
	indexer := newIndexer(days, slots, subjects)

	seen := make(map[uint64]bool)
	for day := range days {
		for slot := range slots {
			for subject := range subjects {
				index := indexer.Index(day, slot, subject)
				assert.False(t, seen[index], "index %v is repeated", index)
				seen[index] = true
				assert.GreaterOrEqual(t, index, uint64(1))
				assert.LessOrEqual(t, index, indexer.Variables())

				actualDay, actualSlot, actualSubject := indexer.Attributes(index)
				assert.Equal(t, [3]uint64{day, slot, subject}, [3]uint64{actualDay, actualSlot, actualSubject})
			}
		}
	}
	assert.Len(t, seen, int(indexer.Variables()))
}

func TestPermutationGeneratorPrunes(t *testing.T) {
	generator := newPermutationGenerator(2, 3, 2)

	all := generator.ConstrainedPermutations(nil)
	assert.Len(t, all, 12)

	// Only slot 1 on day 0, checked as soon as both coordinates are fixed
	pruned := generator.ConstrainedPermutations([]placementPredicate{
		func(permutation []uint64) bool {
			day, slot := permutation[0], permutation[1]
			return day == unassigned || slot == unassigned || (day == 0 && slot == 1)
		},
	})
	assert.Equal(t, [][]uint64{{0, 1, 0}, {0, 1, 1}}, pruned)
}

func BenchmarkSolve(b *testing.B) {
	constraints := fullyAvailablePackage(
		[]string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		[]string{"S1", "S2", "S3", "S4", "S5", "S6"},
		5, 5, 4, 4, 3, 3, 2, 2,
	)
	solver := New(nil, Config{TimeBudget: time.Minute}, nil)

	for b.Loop() {
		if _, err := solver.Solve(context.Background(), constraints, 6); err != nil {
			b.Fatal(err)
		}
	}
}

type stubBackend struct {
	err error
}

func (backend stubBackend) Solve(context.Context, sat.SAT) (sat.SATSolution, error) {
	return nil, backend.err
}

// fullyAvailablePackage builds a package with one subject (and one always available teacher) per entry of periods
func fullyAvailablePackage(days, slots []string, periods ...int) model.ConstraintPackage {
	availability := make(map[string][]string, len(days))
	for _, day := range days {
		availability[day] = slots
	}

	teachers := make([]model.Teacher, 0, len(periods))
	subjects := make([]model.Subject, 0, len(periods))
	for i, count := range periods {
		teacherId := fmt.Sprintf("T%d", i+1)
		teachers = append(teachers, model.Teacher{ID: teacherId, Name: teacherId, Availability: availability})
		subjects = append(subjects, model.Subject{
			ID:             fmt.Sprintf("Sub%d", i+1),
			Name:           fmt.Sprintf("Subject %d", i+1),
			TeacherID:      teacherId,
			PeriodsPerWeek: count,
		})
	}

	return model.ConstraintPackage{
		Hard: model.HardConstraints{
			Days:        days,
			SlotsPerDay: len(slots),
			SlotNames:   slots,
			Teachers:    teachers,
			Subjects:    subjects,
			ClassName:   model.DefaultClassName,
		},
		Soft: model.DefaultSoftConstraints(),
	}
}

func partiallyAvailablePackage() model.ConstraintPackage {
	return model.ConstraintPackage{
		Hard: model.HardConstraints{
			Days:        []string{"Mon", "Tue", "Wed"},
			SlotsPerDay: 3,
			SlotNames:   []string{"S1", "S2", "S3"},
			Teachers: []model.Teacher{
				{ID: "T1", Availability: map[string][]string{"Mon": {"S1", "S2"}, "Wed": {"S3"}}},
				{ID: "T2", Availability: map[string][]string{"Tue": {"S1", "S2", "S3"}, "Sat": {"S1"}}},
				{ID: "T3", Availability: map[string][]string{"Mon": {"S3"}, "Wed": {"S1", "S2", "S9"}}},
			},
			Subjects: []model.Subject{
				{ID: "Math", TeacherID: "T1", PeriodsPerWeek: 2},
				{ID: "Physics", TeacherID: "T2", PeriodsPerWeek: 3},
				{ID: "History", TeacherID: "T3", PeriodsPerWeek: 2},
				{ID: "Chemistry", TeacherID: "T1", PeriodsPerWeek: 1},
			},
			ClassName: "Class B",
		},
		Soft: model.DefaultSoftConstraints(),
	}
}

func assertFeasible(t *testing.T, timetable model.Timetable, constraints model.ConstraintPackage) {
	t.Helper()

	cells := make(map[[2]string]bool)
	counts := make(map[string]int)
	for _, assignment := range timetable.Assignments {
		cell := [2]string{assignment.Day, assignment.Slot}
		assert.False(t, cells[cell], "cell %v is double-booked", cell)
		cells[cell] = true
		counts[assignment.SubjectID]++

		subject, ok := constraints.Hard.Subject(assignment.SubjectID)
		require.True(t, ok)
		assert.Equal(t, subject.TeacherID, assignment.TeacherID)
		teacher, ok := constraints.Hard.Teacher(assignment.TeacherID)
		require.True(t, ok)
		assert.True(t, teacher.Available(assignment.Day, assignment.Slot), "%v is not available at %v", teacher.ID, cell)
	}

	for _, subject := range constraints.Hard.Subjects {
		assert.Equal(t, subject.PeriodsPerWeek, counts[subject.ID], "periods of %v", subject.ID)
	}
}

func assertDistinct(t *testing.T, timetables []model.Timetable) {
	t.Helper()
	for i := range timetables {
		for j := i + 1; j < len(timetables); j++ {
			assert.False(t, timetables[i].Equal(timetables[j]), "timetables %d and %d are equal", i, j)
		}
	}
}

func intPointer(value int) *int {
	return &value
}
