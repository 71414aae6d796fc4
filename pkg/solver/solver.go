package solver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/limaJavier/classtimetable/pkg/model"
	"github.com/limaJavier/classtimetable/pkg/sat"
)

const DefaultTimeBudget = 5 * time.Second

// Preallocation bound of the collected timetables, the caller's cap may be arbitrarily large
const initialCandidates = 16

type Config struct {
	TimeBudget time.Duration // Wall-clock cap of one Solve call, checked between discovered timetables
}

// Solver enumerates feasible timetables of a constraint package. It holds no
// state between calls, so one value may serve sequential runs.
type Solver struct {
	backend sat.SATSolver
	config  Config
	logger  *zap.Logger
}

func New(backend sat.SATSolver, config Config, logger *zap.Logger) *Solver {
	if backend == nil {
		backend = sat.NewGophersatSolver()
	}
	if config.TimeBudget <= 0 {
		config.TimeBudget = DefaultTimeBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{backend: backend, config: config, logger: logger}
}

// Enumerate validates the package, builds its SAT instance and returns the
// sequence of its feasible timetables. A package that fails the capacity
// pre-check yields an enumeration that is already exhausted.
func (solver *Solver) Enumerate(ctx context.Context, constraints model.ConstraintPackage) (*Enumeration, error) {
	if err := model.Validate(constraints); err != nil {
		return nil, err
	}

	hard := constraints.Hard

	//** Extract attributes' domains
	days := uint64(len(hard.Days))
	slots := uint64(len(hard.SlotNames))
	subjects := uint64(len(hard.Subjects))
	periods := make([]int, subjects)
	for subject, subjectInfo := range hard.Subjects {
		periods[subject] = subjectInfo.PeriodsPerWeek
	}

	//** Initialize dependencies
	indexer := newIndexer(days, slots, subjects)
	state := constraintState{
		evaluator:        newPredicateEvaluator(hard),
		indexer:          indexer,
		generator:        newPermutationGenerator(days, slots, subjects),
		days:             days,
		slots:            slots,
		subjects:         subjects,
		periods:          periods,
		maxPeriodsPerDay: hard.MaxPeriodsPerDay,
	}

	sufficient, err := sufficientCapacity(state)
	if err != nil {
		return nil, fmt.Errorf("cannot check capacity: %w", err)
	}
	if !sufficient {
		solver.logger.Debug("capacity pre-check proved the package infeasible", zap.String("class", hard.ClassName))
		return exhaustedEnumeration(), nil
	}

	//** Build SAT instance
	constraintFuncs := []constraintFunc{
		occupancyConstraints,
		periodConstraints,
		availabilityConstraints,
		dailyCapConstraints,
	}
	satInstance := buildSat(indexer.Variables(), constraintFuncs, state)

	solver.logger.Debug("SAT instance built",
		zap.String("class", hard.ClassName),
		zap.Uint64("variables", satInstance.Variables),
		zap.Int("clauses", len(satInstance.Clauses)),
	)

	return newEnumeration(ctx, solver.backend, satInstance, indexer, constraints), nil
}

// Solve collects up to maxCandidates distinct feasible timetables within the
// time budget. Infeasibility is reported through the status, never as an
// error; errors mean malformed input or a failing backend.
func (solver *Solver) Solve(ctx context.Context, constraints model.ConstraintPackage, maxCandidates int) (model.SolverResult, error) {
	if maxCandidates <= 0 {
		return model.SolverResult{}, fmt.Errorf("maximum candidates must be positive, got %d", maxCandidates)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, solver.config.TimeBudget)
	defer cancel()

	enumeration, err := solver.Enumerate(ctx, constraints)
	if err != nil {
		return model.SolverResult{}, err
	}

	timetables := make([]model.Timetable, 0, min(maxCandidates, initialCandidates))
	for len(timetables) < maxCandidates && enumeration.Next() {
		timetables = append(timetables, enumeration.Timetable())
	}
	if err := enumeration.Err(); err != nil {
		return model.SolverResult{}, fmt.Errorf("cannot solve SAT instance: %w", err)
	}

	status := resolveStatus(enumeration.Outcome(), len(timetables))

	solver.logger.Info("solve finished",
		zap.String("class", constraints.Hard.ClassName),
		zap.String("status", string(status)),
		zap.Int("candidates", len(timetables)),
		zap.Stringer("outcome", enumeration.Outcome()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return model.SolverResult{FeasibleTimetables: timetables, Status: status}, nil
}

func resolveStatus(outcome Outcome, found int) model.Status {
	switch {
	case found > 0 && outcome == Exhausted:
		return model.StatusOptimal
	case found > 0:
		return model.StatusFeasible
	case outcome == Exhausted:
		return model.StatusInfeasible
	default:
		return model.StatusUnknown
	}
}
