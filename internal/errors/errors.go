package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Solver errors (SOLVER-001 to SOLVER-099)
	ErrCodeSolverNotFound    ErrorCode = "SOLVER-001"
	ErrCodeSolverStartFailed ErrorCode = "SOLVER-002"

	// Log errors (LOG-001 to LOG-099)
	ErrCodeNoData      ErrorCode = "LOG-001"
	ErrCodeAllOutliers ErrorCode = "LOG-002"

	// Report errors (REPORT-001 to REPORT-099)
	ErrCodeReportRender ErrorCode = "REPORT-001"
	ErrCodeBinCount     ErrorCode = "REPORT-002"

	// CNF errors (CNF-001 to CNF-099)
	ErrCodeCNFParse ErrorCode = "CNF-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// HarnessError is an error carrying a stable code and optional recovery suggestions.
type HarnessError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *HarnessError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a HarnessError with the same code.
func (e *HarnessError) Is(target error) bool {
	t, ok := target.(*HarnessError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// New creates a new HarnessError
func New(code ErrorCode, message string) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new HarnessError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *HarnessError) WithSuggestion(suggestion string) *HarnessError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *HarnessError) WithSuggestions(suggestions ...string) *HarnessError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Code returns the code of the first HarnessError in err's chain, or "".
func Code(err error) ErrorCode {
	for err != nil {
		if he, ok := err.(*HarnessError); ok {
			return he.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Sentinel matches any HarnessError with the given code when used with errors.Is.
func Sentinel(code ErrorCode) *HarnessError {
	return &HarnessError{Code: code}
}

// NewSolverNotFoundError creates an error for a missing or non-executable solver binary
func NewSolverNotFoundError(solver, path string, cause error) *HarnessError {
	return Wrap(ErrCodeSolverNotFound, fmt.Sprintf("%s executable not usable: %s", solver, path), cause).
		WithSuggestion(fmt.Sprintf("Pass --solver-path or set SLSBENCH_%s_PATH", strings.ToUpper(solver))).
		WithSuggestion("Check that the file exists and has the executable bit set")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *HarnessError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewNoDataError creates the soft error raised when a log holds no successful runs
func NewNoDataError(path string) *HarnessError {
	msg := "no successful runs"
	if path != "" {
		msg = fmt.Sprintf("no successful runs in %s", path)
	}
	return New(ErrCodeNoData, msg)
}

// NewAllOutliersError reports a sample whose every value lies outside the
// outlier fences, leaving nothing to bin.
func NewAllOutliersError(path string, n int, upper float64) *HarnessError {
	return New(ErrCodeAllOutliers,
		fmt.Sprintf("all %d successful runs in %s lie outside the outlier fences (upper %.2f)", n, path, upper)).
		WithSuggestion("Drop --filter-outliers to plot the raw sample")
}
