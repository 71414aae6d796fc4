package optimizer

import (
	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
	"github.com/limaJavier/classtimetable/pkg/model"
	"github.com/limaJavier/classtimetable/pkg/scoring"
)

// Selection is the best candidate together with its position in the input
type Selection struct {
	Index     int
	Timetable model.Timetable
	Score     float64
	Breakdown scoring.Breakdown
}

// SelectBest returns the highest scoring candidate. Ties go to the candidate
// that comes first, so a fixed candidate order yields a fixed selection.
func SelectBest(candidates []model.Timetable, constraints model.ConstraintPackage) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, appErrors.Clone(appErrors.ErrEmptyCandidateSet, "")
	}

	best := Selection{Index: -1}
	for i, candidate := range candidates {
		breakdown := scoring.Evaluate(candidate, constraints.Soft)
		if best.Index == -1 || breakdown.Total > best.Score {
			best = Selection{
				Index:     i,
				Timetable: candidate,
				Score:     breakdown.Total,
				Breakdown: breakdown,
			}
		}
	}
	return best, nil
}
