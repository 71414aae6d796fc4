package sat

// Cardinality bounds how many of its literals may be true: AtLeast <= count <= AtMost
type Cardinality struct {
	Literals []int64
	AtLeast  int
	AtMost   int
}

func AtMost(k int, literals ...int64) Cardinality {
	return Cardinality{Literals: literals, AtLeast: 0, AtMost: k}
}

func AtLeast(k int, literals ...int64) Cardinality {
	return Cardinality{Literals: literals, AtLeast: k, AtMost: len(literals)}
}

func Exactly(k int, literals ...int64) Cardinality {
	return Cardinality{Literals: literals, AtLeast: k, AtMost: k}
}

// AddCardinality encodes the constraint into clauses. Auxiliary variables are
// allocated above s.Variables, so decision variables must be allocated first.
func (s *SAT) AddCardinality(constraint Cardinality) {
	literals := constraint.Literals

	if constraint.AtLeast > constraint.AtMost || constraint.AtLeast > len(literals) || constraint.AtMost < 0 {
		s.addContradiction()
		return
	}

	s.addAtMost(literals, constraint.AtMost)

	// At least k of x_1..x_n is at most n-k of their negations
	if constraint.AtLeast > 0 {
		negated := make([]int64, len(literals))
		for i, literal := range literals {
			negated[i] = -literal
		}
		s.addAtMost(negated, len(literals)-constraint.AtLeast)
	}
}

// addAtMost uses the sequential counter encoding (Sinz, 2005): register
// counter[i][j] holds when at least j+1 of the first i+1 literals are true.
func (s *SAT) addAtMost(literals []int64, k int) {
	n := len(literals)
	if k >= n {
		return
	}
	if k == 0 {
		for _, literal := range literals {
			s.AddClauses([]int64{-literal})
		}
		return
	}

	counter := make([][]int64, n-1)
	for i := range counter {
		counter[i] = make([]int64, k)
		for j := range counter[i] {
			counter[i][j] = s.NewVariable()
		}
	}

	s.AddClauses([]int64{-literals[0], counter[0][0]})
	for j := 1; j < k; j++ {
		s.AddClauses([]int64{-counter[0][j]})
	}

	for i := 1; i < n-1; i++ {
		s.AddClauses(
			[]int64{-literals[i], counter[i][0]},
			[]int64{-counter[i-1][0], counter[i][0]},
		)
		for j := 1; j < k; j++ {
			s.AddClauses(
				[]int64{-literals[i], -counter[i-1][j-1], counter[i][j]},
				[]int64{-counter[i-1][j], counter[i][j]},
			)
		}
		s.AddClauses([]int64{-literals[i], -counter[i-1][k-1]})
	}

	s.AddClauses([]int64{-literals[n-1], -counter[n-2][k-1]})
}

// addContradiction makes the instance unsatisfiable without relying on empty clauses
func (s *SAT) addContradiction() {
	variable := s.NewVariable()
	s.AddClauses([]int64{variable}, []int64{-variable})
}
