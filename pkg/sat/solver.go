package sat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrUndetermined is returned when a backend stops without proving satisfiability either way
var ErrUndetermined = errors.New("sat: search stopped without an answer")

type SATSolver interface {
	Solve(context.Context, SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

const (
	BackendGophersat = "gophersat"
	BackendKissat    = "kissat"
)

// Options carries the backend specific settings
type Options struct {
	KissatPath string
}

var backends = map[string]func(options Options) SATSolver{
	BackendGophersat: func(Options) SATSolver { return NewGophersatSolver() },
	BackendKissat: func(options Options) SATSolver {
		return NewKissatSolver(options.KissatPath)
	},
}

// Backends lists the names accepted by New
func Backends() []string {
	names := lo.Keys(backends)
	slices.Sort(names)
	return names
}

func New(backend string, options Options) (SATSolver, error) {
	constructor, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid SAT backend, allowed values are %v", backend, Backends())
	}
	return constructor(options), nil
}
