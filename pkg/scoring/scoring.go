// Package scoring holds the soft-constraint measures used to rank feasible
// timetables. Every measure is a pure function where larger is better.
package scoring

import (
	"github.com/samber/lo"

	"github.com/limaJavier/classtimetable/pkg/model"
)

// Breakdown keeps the raw (unweighted) measures next to the combined score
type Breakdown struct {
	Gaps             float64 `json:"gaps"`
	Balance          float64 `json:"balance"`
	PreferredWindows float64 `json:"preferred_windows"`
	Mornings         float64 `json:"mornings"`
	Total            float64 `json:"total"`
}

// Gaps returns the negated number of empty slots lying strictly between the
// first and the last occupied slot of each day.
func Gaps(timetable model.Timetable) float64 {
	grid := timetable.Grid()

	penalty := 0
	for _, day := range timetable.Days {
		taken := make([]int, 0, len(timetable.SlotNames))
		for slot, slotName := range timetable.SlotNames {
			if _, ok := grid.Cell(day, slotName); ok {
				taken = append(taken, slot)
			}
		}
		if len(taken) < 2 {
			continue
		}
		// Slots in between minus the ones taken in between
		penalty += taken[len(taken)-1] - taken[0] + 1 - len(taken)
	}
	return -float64(penalty)
}

// Balance returns the negated sum, over the subjects present in the
// timetable, of the population variance of their per-day occupancy counts.
func Balance(timetable model.Timetable) float64 {
	if len(timetable.Days) < 2 {
		return 0
	}

	subjects := make([]string, 0)
	perDay := make(map[string]map[string]int)
	for _, assignment := range timetable.Assignments {
		if _, ok := perDay[assignment.SubjectID]; !ok {
			subjects = append(subjects, assignment.SubjectID)
			perDay[assignment.SubjectID] = make(map[string]int)
		}
		perDay[assignment.SubjectID][assignment.Day]++
	}

	total := 0.0
	for _, subject := range subjects {
		counts := lo.Map(timetable.Days, func(day string, _ int) float64 {
			return float64(perDay[subject][day])
		})
		total += variance(counts)
	}
	return -total
}

// PreferredWindows counts the (subject, "day:slot") windows the timetable
// honours. Malformed tokens and tokens naming cells outside the grid are skipped.
func PreferredWindows(timetable model.Timetable, windows map[string][]string) float64 {
	grid := timetable.Grid()

	reward := 0
	for subject, tokens := range windows {
		for _, token := range tokens {
			day, slot, ok := model.ParseWindow(token)
			if !ok {
				continue
			}
			if cell, ok := grid.Cell(day, slot); ok && cell.SubjectID == subject {
				reward++
			}
		}
	}
	return float64(reward)
}

// Mornings counts the days whose first slot is occupied, whatever the subject
func Mornings(timetable model.Timetable) float64 {
	if len(timetable.SlotNames) == 0 {
		return 0
	}

	grid := timetable.Grid()
	first := timetable.SlotNames[0]
	return float64(lo.CountBy(timetable.Days, func(day string) bool {
		_, ok := grid.Cell(day, first)
		return ok
	}))
}

// Evaluate computes every measure and combines them:
//
//	gaps_weight*Gaps + balance_weight*Balance + PreferredWindows + mornings_weight*Mornings
//
// The preferred windows term carries no weight of its own, and the mornings
// term only counts when its weight is positive.
func Evaluate(timetable model.Timetable, soft model.SoftConstraints) Breakdown {
	breakdown := Breakdown{
		Gaps:             Gaps(timetable),
		Balance:          Balance(timetable),
		PreferredWindows: PreferredWindows(timetable, soft.PreferredWindows),
	}

	breakdown.Total = soft.MinimizeGapsWeight*breakdown.Gaps +
		soft.BalanceSubjectsAcrossDaysWeight*breakdown.Balance +
		breakdown.PreferredWindows
	if soft.PreferMorningsWeight > 0 {
		breakdown.Mornings = Mornings(timetable)
		breakdown.Total += soft.PreferMorningsWeight * breakdown.Mornings
	}
	return breakdown
}

// Score returns the combined score of the timetable
func Score(timetable model.Timetable, soft model.SoftConstraints) float64 {
	return Evaluate(timetable, soft).Total
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := lo.Sum(values) / float64(len(values))
	squares := lo.Map(values, func(value float64, _ int) float64 {
		return (value - mean) * (value - mean)
	})
	return lo.Sum(squares) / float64(len(values))
}

