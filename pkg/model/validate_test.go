package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
)

func TestValidateAcceptsValidPackage(t *testing.T) {
	constraints := validPackage()
	// Unknown references used only for ranking or availability are ignored, not rejected
	constraints.Soft.PreferredWindows["Ghost"] = []string{"Sun:S9", "garbage"}
	constraints.Hard.Teachers[0].Availability["Sat"] = []string{"S1"}

	assert.NoError(t, Validate(constraints))
}

func TestValidateReportsEveryViolation(t *testing.T) {
	//** Arrange
	constraints := validPackage()
	constraints.Hard.Days = []string{"Mon", "Mon"}
	constraints.Hard.SlotsPerDay = 3
	constraints.Hard.Teachers = append(constraints.Hard.Teachers, Teacher{ID: "T1"})
	constraints.Hard.Subjects = append(constraints.Hard.Subjects,
		Subject{ID: "Math", TeacherID: "T1", PeriodsPerWeek: 1},
		Subject{ID: "Art", TeacherID: "T7", PeriodsPerWeek: 0},
	)
	constraints.Soft.PreferMorningsWeight = math.Inf(1)

	//** Act
	err := Validate(constraints)

	//** Assert
	require.ErrorIs(t, err, appErrors.ErrSchemaInvalid)
	typed, ok := appErrors.FromError(err)
	require.True(t, ok)
	assert.Contains(t, typed.Details, "slot_names length (2) must equal slots_per_day (3)")
	assert.Contains(t, typed.Details, `day "Mon" is listed more than once`)
	assert.Contains(t, typed.Details, `teacher id "T1" is not unique`)
	assert.Contains(t, typed.Details, `subject id "Math" is not unique`)
	assert.Contains(t, typed.Details, `subject "Art" references unknown teacher "T7"`)
	assert.Contains(t, typed.Details, "prefer_mornings_weight must be finite")
	assert.Contains(t, typed.Details, `ConstraintPackage.Hard.Subjects[3].PeriodsPerWeek violates "gt=0"`)
}

func TestValidateStructTags(t *testing.T) {
	cases := map[string]func(constraints *ConstraintPackage){
		"no days":            func(c *ConstraintPackage) { c.Hard.Days = nil },
		"empty day":          func(c *ConstraintPackage) { c.Hard.Days = []string{""} },
		"no slots":           func(c *ConstraintPackage) { c.Hard.SlotsPerDay = 0 },
		"no teachers":        func(c *ConstraintPackage) { c.Hard.Teachers = nil },
		"no subjects":        func(c *ConstraintPackage) { c.Hard.Subjects = nil },
		"teacher without id": func(c *ConstraintPackage) { c.Hard.Teachers[0].ID = "" },
		"negative weight":    func(c *ConstraintPackage) { c.Soft.MinimizeGapsWeight = -1 },
		"negative cap":       func(c *ConstraintPackage) { c.Hard.MaxPeriodsPerDay = new(int); *c.Hard.MaxPeriodsPerDay = -1 },
		"NaN weight":         func(c *ConstraintPackage) { c.Soft.BalanceSubjectsAcrossDaysWeight = math.NaN() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			constraints := validPackage()
			mutate(&constraints)

			assert.ErrorIs(t, Validate(constraints), appErrors.ErrSchemaInvalid)
		})
	}
}

func validPackage() ConstraintPackage {
	return ConstraintPackage{
		Hard: HardConstraints{
			Days:        []string{"Mon", "Tue"},
			SlotsPerDay: 2,
			SlotNames:   []string{"S1", "S2"},
			Teachers: []Teacher{
				{ID: "T1", Availability: map[string][]string{"Mon": {"S1", "S2"}}},
				{ID: "T2", Availability: map[string][]string{"Tue": {"S1", "S2"}}},
			},
			Subjects: []Subject{
				{ID: "Math", TeacherID: "T1", PeriodsPerWeek: 2},
				{ID: "Physics", TeacherID: "T2", PeriodsPerWeek: 1},
			},
			ClassName: DefaultClassName,
		},
		Soft: DefaultSoftConstraints(),
	}
}
