package ux

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion for common operating system failures that
// reach the CLI without one.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}
	var he *errors.HarnessError
	if stderrors.As(err, &he) && len(he.Suggestions) > 0 {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "exec format error"):
		return NewErrorWithSuggestion(err,
			"The solver binary was built for another platform; rebuild it on this machine")
	case strings.Contains(msg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check file permissions; solver binaries need the executable bit (chmod +x)")
	case strings.Contains(msg, "no space left on device"):
		return NewErrorWithSuggestion(err,
			"Free disk space; summary and raw logs grow by one line per run")
	}
	return err
}

// PrintError writes err to w, with its code and suggestions when it carries
// them.
func PrintError(w io.Writer, st *Styles, err error) {
	if err == nil {
		return
	}
	if st == nil {
		st = NewStyles(w, true)
	}

	var he *errors.HarnessError
	if stderrors.As(err, &he) {
		fmt.Fprintf(w, "%s %s\n", st.Error.Render("Error ["+string(he.Code)+"]:"), he.Message)
		if he.Cause != nil {
			fmt.Fprintf(w, "  %s %v\n", st.Muted.Render("cause:"), he.Cause)
		}
		for _, s := range he.Suggestions {
			fmt.Fprintf(w, "  %s %s\n", st.Highlight.Render("suggestion:"), s)
		}
		return
	}

	var ws *ErrorWithSuggestion
	if stderrors.As(err, &ws) {
		fmt.Fprintf(w, "%s %v\n", st.Error.Render("Error:"), ws.Err)
		fmt.Fprintf(w, "  %s %s\n", st.Highlight.Render("suggestion:"), ws.Suggestion)
		return
	}

	fmt.Fprintf(w, "%s %v\n", st.Error.Render("Error:"), err)
}
