package orchestrator

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limaJavier/classtimetable/pkg/config"
	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
	applog "github.com/limaJavier/classtimetable/pkg/logger"
	"github.com/limaJavier/classtimetable/pkg/metrics"
	"github.com/limaJavier/classtimetable/pkg/model"
	"github.com/limaJavier/classtimetable/pkg/optimizer"
	"github.com/limaJavier/classtimetable/pkg/sat"
	"github.com/limaJavier/classtimetable/pkg/scoring"
	"github.com/limaJavier/classtimetable/pkg/solver"
	"github.com/limaJavier/classtimetable/pkg/verifier"
)

const (
	DefaultMaxRetries    = 2
	DefaultMaxCandidates = 6
)

type CandidateSolver interface {
	Solve(ctx context.Context, constraints model.ConstraintPackage, maxCandidates int) (model.SolverResult, error)
}

type CandidateVerifier interface {
	Verify(ctx context.Context, timetable model.Timetable, constraints model.ConstraintPackage) model.VerificationResult
}

type Config struct {
	MaxRetries    int // Every stage is attempted at most MaxRetries+1 times
	MaxCandidates int // Cap on the timetables enumerated by one solve attempt
}

// Outcome is the result of a successful run
type Outcome struct {
	RunID          string
	Timetable      model.Timetable
	Score          float64
	Breakdown      scoring.Breakdown
	Verification   model.VerificationResult
	SolveAttempts  int
	VerifyAttempts int
	ExportErr      error // Export failures do not fail the run
}

// Orchestrator drives Solve -> Optimize -> Verify -> Accept. It keeps no
// state between runs; every run owns its attempt counters and candidate pool.
type Orchestrator struct {
	solver   CandidateSolver
	verifier CandidateVerifier
	exporter Exporter
	config   Config
	logger   *zap.Logger
	recorder *metrics.Recorder
}

func New(
	solver CandidateSolver,
	verifier CandidateVerifier,
	exporter Exporter,
	config Config,
	logger *zap.Logger,
	recorder *metrics.Recorder,
) *Orchestrator {
	if exporter == nil {
		exporter = NopExporter{}
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultMaxCandidates
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		solver:   solver,
		verifier: verifier,
		exporter: exporter,
		config:   config,
		logger:   logger,
		recorder: recorder,
	}
}

// FromConfig wires the SAT backend, the solver and the verifier named by cfg.
// A nil logger is built from the log settings of cfg.
func FromConfig(cfg *config.Config, logger *zap.Logger, recorder *metrics.Recorder, exporter Exporter, advisors ...verifier.Advisor) (*Orchestrator, error) {
	backend, err := sat.New(cfg.Solver.Backend, sat.Options{KissatPath: cfg.Solver.KissatPath})
	if err != nil {
		return nil, err
	}

	if logger == nil {
		if logger, err = applog.New(cfg); err != nil {
			return nil, fmt.Errorf("cannot build logger: %w", err)
		}
	}

	return New(
		solver.New(backend, solver.Config{TimeBudget: cfg.Solver.TimeBudget}, logger),
		verifier.New(logger, advisors...),
		exporter,
		Config{
			MaxRetries:    cfg.Orchestrator.MaxRetries,
			MaxCandidates: cfg.Solver.MaxCandidates,
		},
		logger,
		recorder,
	), nil
}

// Run executes one bounded pass of the machine. Errors returned carry one of
// the kinds of the errors package: SchemaInvalid, Unsatisfiable or VerificationFailed.
func (orchestrator *Orchestrator) Run(ctx context.Context, constraints model.ConstraintPackage) (*Outcome, error) {
	runID := uuid.NewString()
	logger := orchestrator.logger.With(zap.String("run_id", runID))

	outcome, err := orchestrator.run(ctx, runID, constraints, logger)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		orchestrator.recorder.ObserveRun(strings.ToLower(string(appErrors.KindOf(err))))
		return nil, err
	}
	orchestrator.recorder.ObserveRun("accepted")
	return outcome, nil
}

func (orchestrator *Orchestrator) run(ctx context.Context, runID string, constraints model.ConstraintPackage, logger *zap.Logger) (*Outcome, error) {
	if err := model.Validate(constraints); err != nil {
		return nil, err
	}

	//** Solve
	result, solveAttempts, err := orchestrator.solve(ctx, constraints, logger)
	if err != nil {
		return nil, err
	}

	//** Optimize and verify
	selection, verification, verifyAttempts, err := orchestrator.verifyCandidates(ctx, result.FeasibleTimetables, constraints, logger)
	if err != nil {
		return nil, err
	}

	//** Accept
	outcome := &Outcome{
		RunID:          runID,
		Timetable:      selection.Timetable,
		Score:          selection.Score,
		Breakdown:      selection.Breakdown,
		Verification:   verification,
		SolveAttempts:  solveAttempts,
		VerifyAttempts: verifyAttempts,
	}

	accepted := Accepted{
		RunID:        runID,
		ClassName:    selection.Timetable.ClassName,
		Timetable:    selection.Timetable.Clone(),
		Score:        selection.Score,
		Verification: verification,
	}
	if err := orchestrator.exporter.Export(ctx, accepted); err != nil {
		logger.Error("cannot export accepted timetable", zap.Error(err))
		outcome.ExportErr = err
	}

	logger.Info("timetable accepted",
		zap.Float64("score", selection.Score),
		zap.Int("solve_attempts", solveAttempts),
		zap.Int("verify_attempts", verifyAttempts),
		zap.Int("warnings", len(verification.Warnings)),
	)
	return outcome, nil
}

// solve retries the whole solve step until it yields candidates. Only
// malformed input stops the retries early.
func (orchestrator *Orchestrator) solve(ctx context.Context, constraints model.ConstraintPackage, logger *zap.Logger) (model.SolverResult, int, error) {
	attempts := orchestrator.config.MaxRetries + 1

	var lastErr error
	lastStatus := model.StatusUnknown
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		result, err := orchestrator.solver.Solve(ctx, constraints, orchestrator.config.MaxCandidates)
		if err != nil {
			orchestrator.recorder.ObserveSolve("ERROR", 0, time.Since(start))
			if appErrors.KindOf(err) == appErrors.KindSchemaInvalid {
				return model.SolverResult{}, attempt, err
			}
			logger.Warn("solve attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		orchestrator.recorder.ObserveSolve(string(result.Status), len(result.FeasibleTimetables), time.Since(start))
		if result.Status.Usable() && len(result.FeasibleTimetables) > 0 {
			logger.Info("solve attempt succeeded",
				zap.Int("attempt", attempt),
				zap.String("status", string(result.Status)),
				zap.Int("candidates", len(result.FeasibleTimetables)),
			)
			return result, attempt, nil
		}

		logger.Warn("solve attempt produced no candidates", zap.Int("attempt", attempt), zap.String("status", string(result.Status)))
		lastStatus = result.Status
		lastErr = nil
	}

	err := appErrors.New(appErrors.KindUnsatisfiable, appErrors.ErrUnsatisfiable.Message,
		fmt.Sprintf("no feasible timetable after %d attempts, last status %v", attempts, lastStatus))
	err.Err = lastErr
	return model.SolverResult{}, attempts, err
}

// verifyCandidates ranks the remaining candidates and verifies the best one until a
// candidate passes without warnings, the attempts run out or the pool is
// empty. The solver is never called from here.
//
// A candidate that passed with warnings is remembered: when every later
// candidate fails, that earlier one is accepted instead of failing the whole
// run. VerificationFailed is reported only when no candidate passed at all.
func (orchestrator *Orchestrator) verifyCandidates(
	ctx context.Context,
	candidates []model.Timetable,
	constraints model.ConstraintPackage,
	logger *zap.Logger,
) (optimizer.Selection, model.VerificationResult, int, error) {
	attempts := orchestrator.config.MaxRetries + 1
	remaining := slices.Clone(candidates)

	var (
		passing      *optimizer.Selection
		passingCheck model.VerificationResult
		lastErrors   []string
		attempt      int
	)
	for attempt < attempts && len(remaining) > 0 {
		attempt++

		selection, err := optimizer.SelectBest(remaining, constraints)
		if err != nil {
			return optimizer.Selection{}, model.VerificationResult{}, attempt, err
		}
		logger.Debug("candidate selected", zap.Int("attempt", attempt), zap.Float64("score", selection.Score))

		verification := orchestrator.verifier.Verify(ctx, selection.Timetable, constraints)
		switch {
		case verification.Passed && len(verification.Warnings) == 0:
			orchestrator.recorder.ObserveVerification("passed")
			return selection, verification, attempt, nil
		case verification.Passed:
			orchestrator.recorder.ObserveVerification("warnings")
			logger.Warn("verification passed with warnings", zap.Int("attempt", attempt), zap.Strings("warnings", verification.Warnings))
			passing, passingCheck = &selection, verification
		default:
			orchestrator.recorder.ObserveVerification("failed")
			logger.Error("verification failed", zap.Int("attempt", attempt), zap.Strings("errors", verification.Errors))
			lastErrors = verification.Errors
		}

		remaining = slices.Delete(remaining, selection.Index, selection.Index+1)
	}

	if passing != nil {
		logger.Warn("no candidate passed without warnings, accepting the last passing one", zap.Int("attempts", attempt))
		return *passing, passingCheck, attempt, nil
	}
	return optimizer.Selection{}, model.VerificationResult{}, attempt,
		appErrors.New(appErrors.KindVerificationFailed, appErrors.ErrVerificationFailed.Message, lastErrors...)
}
