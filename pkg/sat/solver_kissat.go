package sat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const defaultKissatPath = "kissat"

type kissatSolver struct {
	path string
}

// NewKissatSolver runs the kissat executable found at path (or in PATH when empty)
func NewKissatSolver(path string) SATSolver {
	if path == "" {
		path = defaultKissatPath
	}
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	cmd := exec.CommandContext(ctx, solver.path, "-q", "--relaxed")
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into kissat's standard input

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndetermined, ctx.Err())
	}
	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("cannot start kissat: %w", err)
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != 10 && exitCode != 20 {
		return nil, fmt.Errorf("an error occurred during kissat execution: %v : %v", err.Error(), stderr.String())
	} else if exitCode == 20 {
		return nil, nil
	}

	return parseSolution(stdOut.String())
}
