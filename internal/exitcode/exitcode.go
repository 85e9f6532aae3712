package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// SolverError indicates the external solver could not be started
	SolverError = 3

	// IOError indicates a log, CNF or image file could not be read or written
	IOError = 4

	// Interrupted indicates the user cancelled the operation (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	code := string(errors.Code(err))
	switch {
	case strings.HasPrefix(code, "SOLVER-"):
		return SolverError
	case strings.HasPrefix(code, "IO-"), strings.HasPrefix(code, "CNF-"):
		return IOError
	case strings.HasPrefix(code, "CONFIG-"), code == string(errors.ErrCodeBinCount):
		return UsageError
	}

	// cobra reports argument problems as plain errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "accepts ") || strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case SolverError:
		return "Solver executable could not be run"
	case IOError:
		return "File could not be read or written"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
