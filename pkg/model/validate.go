package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
)

var validate = validator.New()

// Validate checks the structural invariants of a constraint package and
// returns a SchemaInvalid error listing every violation found. References
// that are only used for ranking (preferred windows) and availability entries
// outside the grid are not violations; consumers ignore them.
func Validate(constraints ConstraintPackage) error {
	violations := make([]string, 0)

	if err := validate.Struct(constraints); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return appErrors.Wrap(err, appErrors.KindSchemaInvalid, appErrors.ErrSchemaInvalid.Message)
		}
		for _, fieldError := range validationErrors {
			rule := fieldError.Tag()
			if fieldError.Param() != "" {
				rule = fmt.Sprintf("%v=%v", rule, fieldError.Param())
			}
			violations = append(violations, fmt.Sprintf("%v violates %q", fieldError.Namespace(), rule))
		}
	}

	hard, soft := constraints.Hard, constraints.Soft

	if len(hard.SlotNames) != hard.SlotsPerDay {
		violations = append(violations, fmt.Sprintf("slot_names length (%d) must equal slots_per_day (%d)", len(hard.SlotNames), hard.SlotsPerDay))
	}
	for _, day := range lo.FindDuplicates(hard.Days) {
		violations = append(violations, fmt.Sprintf("day %q is listed more than once", day))
	}
	for _, slot := range lo.FindDuplicates(hard.SlotNames) {
		violations = append(violations, fmt.Sprintf("slot %q is listed more than once", slot))
	}

	teacherIds := lo.Map(hard.Teachers, func(teacher Teacher, _ int) string { return teacher.ID })
	for _, id := range lo.FindDuplicates(teacherIds) {
		violations = append(violations, fmt.Sprintf("teacher id %q is not unique", id))
	}
	subjectIds := lo.Map(hard.Subjects, func(subject Subject, _ int) string { return subject.ID })
	for _, id := range lo.FindDuplicates(subjectIds) {
		violations = append(violations, fmt.Sprintf("subject id %q is not unique", id))
	}
	for _, subject := range hard.Subjects {
		if subject.TeacherID != "" && !lo.Contains(teacherIds, subject.TeacherID) {
			violations = append(violations, fmt.Sprintf("subject %q references unknown teacher %q", subject.ID, subject.TeacherID))
		}
	}

	weights := map[string]float64{
		"minimize_gaps_weight":                soft.MinimizeGapsWeight,
		"balance_subjects_across_days_weight": soft.BalanceSubjectsAcrossDaysWeight,
		"prefer_mornings_weight":              soft.PreferMorningsWeight,
	}
	for _, name := range []string{"minimize_gaps_weight", "balance_subjects_across_days_weight", "prefer_mornings_weight"} {
		if math.IsInf(weights[name], 0) {
			violations = append(violations, fmt.Sprintf("%v must be finite", name))
		}
	}

	if len(violations) > 0 {
		return appErrors.New(appErrors.KindSchemaInvalid, appErrors.ErrSchemaInvalid.Message, violations...)
	}
	return nil
}
