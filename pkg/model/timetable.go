package model

import (
	"slices"
	"strings"
)

// AssignedCell is one scheduled occupancy of exactly one (day, slot) cell.
type AssignedCell struct {
	Day       string `json:"day" mapstructure:"day"`
	Slot      string `json:"slot" mapstructure:"slot"`
	SubjectID string `json:"subject_id" mapstructure:"subject_id"`
	TeacherID string `json:"teacher_id" mapstructure:"teacher_id"`
}

// Timetable holds the assignments of one class. No two assignments share a (day, slot) pair.
type Timetable struct {
	ClassName   string         `json:"class_name" mapstructure:"class_name"`
	Days        []string       `json:"days" mapstructure:"days"`
	SlotNames   []string       `json:"slot_names" mapstructure:"slot_names"`
	Assignments []AssignedCell `json:"assignments" mapstructure:"assignments"`
}

// Grid is the day -> slot -> cell projection of a timetable.
type Grid map[string]map[string]AssignedCell

// Grid builds the day -> slot projection. Every day of the timetable has a
// (possibly empty) row. When two assignments share a cell the last one wins,
// so callers that must detect duplicates scan Assignments instead.
func (timetable Timetable) Grid() Grid {
	grid := make(Grid, len(timetable.Days))
	for _, day := range timetable.Days {
		grid[day] = make(map[string]AssignedCell)
	}
	for _, assignment := range timetable.Assignments {
		if _, ok := grid[assignment.Day]; !ok {
			grid[assignment.Day] = make(map[string]AssignedCell)
		}
		grid[assignment.Day][assignment.Slot] = assignment
	}
	return grid
}

func (grid Grid) Cell(day, slot string) (AssignedCell, bool) {
	cell, ok := grid[day][slot]
	return cell, ok
}

// Clone returns a deep copy of the timetable
func (timetable Timetable) Clone() Timetable {
	return Timetable{
		ClassName:   timetable.ClassName,
		Days:        slices.Clone(timetable.Days),
		SlotNames:   slices.Clone(timetable.SlotNames),
		Assignments: slices.Clone(timetable.Assignments),
	}
}

// Equal reports whether both timetables hold the same assignments regardless of their order.
func (timetable Timetable) Equal(other Timetable) bool {
	if timetable.ClassName != other.ClassName ||
		!slices.Equal(timetable.Days, other.Days) ||
		!slices.Equal(timetable.SlotNames, other.SlotNames) ||
		len(timetable.Assignments) != len(other.Assignments) {
		return false
	}

	counts := make(map[AssignedCell]int, len(timetable.Assignments))
	for _, assignment := range timetable.Assignments {
		counts[assignment]++
	}
	for _, assignment := range other.Assignments {
		if counts[assignment] == 0 {
			return false
		}
		counts[assignment]--
	}
	return true
}

// ParseWindow splits a "day:slot" token. Tokens without exactly one
// separator or with an empty side are rejected.
func ParseWindow(token string) (day, slot string, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnknown    Status = "UNKNOWN"
)

// Usable reports whether the status may carry feasible timetables.
func (status Status) Usable() bool {
	return status == StatusOptimal || status == StatusFeasible
}

type SolverResult struct {
	FeasibleTimetables []Timetable `json:"feasible_timetables"` // Discovery order, used as tie-break order downstream
	Status             Status      `json:"status"`
}

type VerificationResult struct {
	Passed   bool     `json:"passed"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
