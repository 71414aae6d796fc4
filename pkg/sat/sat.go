package sat

import (
	"fmt"
	"strings"
)

// SATSolution lists every variable of the instance as a signed literal (positive when true)
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

// NewVariable allocates a fresh variable above every variable already in use
func (s *SAT) NewVariable() int64 {
	s.Variables++
	return int64(s.Variables)
}

func (s *SAT) AddClauses(clauses ...[]int64) {
	s.Clauses = append(s.Clauses, clauses...)
}

// Clone returns a copy whose clause list can be extended without touching the original
func (s SAT) Clone() SAT {
	clauses := make([][]int64, len(s.Clauses))
	copy(clauses, s.Clauses)
	return SAT{Variables: s.Variables, Clauses: clauses}
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Value reports the binding of variable in the solution
func (solution SATSolution) Value(variable int64) bool {
	index := variable - 1
	if index < 0 || index >= int64(len(solution)) {
		return false
	}
	return solution[index] > 0
}

// Positives returns the variables assigned true
func (solution SATSolution) Positives() []int64 {
	positives := make([]int64, 0)
	for _, literal := range solution {
		if literal > 0 {
			positives = append(positives, literal)
		}
	}
	return positives
}
