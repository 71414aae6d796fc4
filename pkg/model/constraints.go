package model

type Teacher struct {
	ID           string              `json:"id" mapstructure:"id" validate:"required"`
	Name         string              `json:"name" mapstructure:"name"`
	Availability map[string][]string `json:"availability" mapstructure:"availability"` // Day name -> slot names the teacher may teach; a missing day means no availability
}

type Subject struct {
	ID             string `json:"id" mapstructure:"id" validate:"required"`
	Name           string `json:"name" mapstructure:"name"`
	TeacherID      string `json:"teacher_id" mapstructure:"teacher_id" validate:"required"`
	PeriodsPerWeek int    `json:"periods_per_week" mapstructure:"periods_per_week" validate:"gt=0"` // Exact number of slots the subject occupies across the week
}

type HardConstraints struct {
	Days             []string  `json:"days" mapstructure:"days" validate:"required,min=1,dive,required"`
	SlotsPerDay      int       `json:"slots_per_day" mapstructure:"slots_per_day" validate:"gt=0"`
	SlotNames        []string  `json:"slot_names" mapstructure:"slot_names" validate:"required,min=1,dive,required"`
	Teachers         []Teacher `json:"teachers" mapstructure:"teachers" validate:"required,min=1,dive"`
	Subjects         []Subject `json:"subjects" mapstructure:"subjects" validate:"required,min=1,dive"`
	ClassName        string    `json:"class_name" mapstructure:"class_name"`
	MaxPeriodsPerDay *int      `json:"max_periods_per_day,omitempty" mapstructure:"max_periods_per_day" validate:"omitempty,gte=0"`
}

type SoftConstraints struct {
	MinimizeGapsWeight              float64             `json:"minimize_gaps_weight" mapstructure:"minimize_gaps_weight" validate:"gte=0"`
	BalanceSubjectsAcrossDaysWeight float64             `json:"balance_subjects_across_days_weight" mapstructure:"balance_subjects_across_days_weight" validate:"gte=0"`
	PreferMorningsWeight            float64             `json:"prefer_mornings_weight" mapstructure:"prefer_mornings_weight" validate:"gte=0"`
	PreferredWindows                map[string][]string `json:"preferred_windows" mapstructure:"preferred_windows"` // Subject id -> "day:slot" tokens
}

// ConstraintPackage is the sole input of the core. It is built once per run
// and must not be mutated afterwards.
type ConstraintPackage struct {
	Hard HardConstraints `json:"hard" mapstructure:"hard"`
	Soft SoftConstraints `json:"soft" mapstructure:"soft"`
}

const (
	DefaultMinimizeGapsWeight              = 1.0
	DefaultBalanceSubjectsAcrossDaysWeight = 0.5
	DefaultPreferMorningsWeight            = 0.0
)

func DefaultSoftConstraints() SoftConstraints {
	return SoftConstraints{
		MinimizeGapsWeight:              DefaultMinimizeGapsWeight,
		BalanceSubjectsAcrossDaysWeight: DefaultBalanceSubjectsAcrossDaysWeight,
		PreferMorningsWeight:            DefaultPreferMorningsWeight,
		PreferredWindows:                map[string][]string{},
	}
}

// Teacher returns the teacher with the given id.
func (hard HardConstraints) Teacher(id string) (Teacher, bool) {
	for _, teacher := range hard.Teachers {
		if teacher.ID == id {
			return teacher, true
		}
	}
	return Teacher{}, false
}

// Subject returns the subject with the given id.
func (hard HardConstraints) Subject(id string) (Subject, bool) {
	for _, subject := range hard.Subjects {
		if subject.ID == id {
			return subject, true
		}
	}
	return Subject{}, false
}

// Available checks whether the teacher may teach at the given day and slot
func (teacher Teacher) Available(day, slot string) bool {
	for _, available := range teacher.Availability[day] {
		if available == slot {
			return true
		}
	}
	return false
}
