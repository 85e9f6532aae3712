package solver

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	osexec "os/exec"
	"time"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// Invoker runs solver processes. The zero value is ready to use.
type Invoker struct {
	// Env, when non-nil, replaces the child's environment.
	Env []string
}

// Invoke runs s against cnfPath and waits for it to exit. A non-zero exit
// status is not an error: the caller decides from the captured output. Only
// failing to start the process (missing executable, unreadable input) is
// reported as an error.
func (inv *Invoker) Invoke(ctx context.Context, s Solver, cnfPath string) (*Result, error) {
	if err := checkReadable(cnfPath); err != nil {
		return nil, err
	}

	args := s.Args(cnfPath)
	cmd := osexec.CommandContext(ctx, s.Path(), args...)
	if inv.Env != nil {
		cmd.Env = inv.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Command:  append([]string{s.Path()}, args...),
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *osexec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if stderrors.Is(err, osexec.ErrNotFound) || stderrors.Is(err, os.ErrNotExist) || stderrors.Is(err, os.ErrPermission) {
			return nil, errors.NewSolverNotFoundError(s.Name(), s.Path(), err)
		}
		return nil, errors.Wrap(errors.ErrCodeSolverStartFailed,
			fmt.Sprintf("failed to start %s", s.Name()), err)
	}

	return result, nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return errors.NewFileNotFoundError(path)
		}
		return errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	return f.Close()
}
