package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kop-cichra/slsbench/internal/record"
	"github.com/kop-cichra/slsbench/internal/solver"
)

// probeCNF is a one-clause instance every solver satisfies at once.
const probeCNF = "p cnf 2 1\n1 2 0\n"

// SolverChecker runs a solver once on a trivial instance and checks that
// its result line classifies.
type SolverChecker struct {
	solver  solver.Solver
	invoker *solver.Invoker
}

// NewSolverChecker creates a checker for s. A nil invoker uses the zero
// Invoker.
func NewSolverChecker(s solver.Solver, inv *solver.Invoker) *SolverChecker {
	if inv == nil {
		inv = &solver.Invoker{}
	}
	return &SolverChecker{solver: s, invoker: inv}
}

// Name returns "solver-<name>".
func (c *SolverChecker) Name() string {
	return "solver-" + c.solver.Name()
}

// Check invokes the solver.
func (c *SolverChecker) Check(ctx context.Context) *Result {
	dir, err := os.MkdirTemp("", "slsbench-probe-")
	if err != nil {
		return Unhealthy(fmt.Sprintf("cannot create probe instance: %v", err))
	}
	defer os.RemoveAll(dir)

	cnfPath := filepath.Join(dir, "probe.cnf")
	if err := os.WriteFile(cnfPath, []byte(probeCNF), 0o644); err != nil {
		return Unhealthy(fmt.Sprintf("cannot create probe instance: %v", err))
	}

	res, err := c.invoker.Invoke(ctx, c.solver, cnfPath)
	if err != nil {
		msg, _, _ := strings.Cut(err.Error(), "\n")
		return Unhealthy(msg).WithDetail("path", c.solver.Path())
	}

	out := res.Output(c.solver.Stream())
	outcome, _ := record.Classify(out)
	if outcome == record.ParseError {
		return Degraded("solver ran but its result line does not parse").
			WithDetail("path", c.solver.Path()).
			WithDetail("output", out).
			WithDetail("exit_code", res.ExitCode)
	}
	return Healthy(fmt.Sprintf("%s runs, outcome %s", c.solver.Path(), outcome)).
		WithDetail("path", c.solver.Path()).
		WithDetail("exit_code", res.ExitCode)
}

// DirChecker checks that logs can be created in a directory.
type DirChecker struct {
	dir string
}

// NewDirChecker creates a checker for dir.
func NewDirChecker(dir string) *DirChecker {
	return &DirChecker{dir: dir}
}

// Name returns "log-dir".
func (c *DirChecker) Name() string { return "log-dir" }

// Check creates and removes a temporary file in the directory.
func (c *DirChecker) Check(context.Context) *Result {
	f, err := os.CreateTemp(c.dir, ".slsbench-probe-*")
	if err != nil {
		return Unhealthy(fmt.Sprintf("cannot write to %s: %v", c.dir, err))
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return Healthy(fmt.Sprintf("%s is writable", c.dir))
}
