package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSolverNotFound, "test error message")

	if err.Code != ErrCodeSolverNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSolverNotFound, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *HarnessError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeCNFParse, "bad header"),
			wantCode: "CNF-001",
			wantMsg:  "bad header",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			wantCode: "IO-002",
			wantMsg:  "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad config").
		WithSuggestions("Suggestion 1", "Suggestion 2")

	if len(err.Suggestions) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}
	for _, suggestion := range err.Suggestions {
		if !strings.Contains(errStr, suggestion) {
			t.Errorf("error string should contain suggestion: %s", suggestion)
		}
	}
}

func TestSentinel(t *testing.T) {
	err := fmt.Errorf("building report: %w", NewNoDataError("a.log"))

	if !errors.Is(err, Sentinel(ErrCodeNoData)) {
		t.Errorf("errors.Is should match sentinel with the same code")
	}
	if errors.Is(err, Sentinel(ErrCodeReportRender)) {
		t.Errorf("errors.Is should not match sentinel with another code")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"direct", New(ErrCodeCNFParse, "x"), ErrCodeCNFParse},
		{"wrapped", fmt.Errorf("ctx: %w", NewSolverNotFoundError("gsat", "/x", nil)), ErrCodeSolverNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSolverNotFoundError(t *testing.T) {
	err := NewSolverNotFoundError("probsat", "./probsat", fmt.Errorf("no such file"))

	if err.Code != ErrCodeSolverNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSolverNotFound, err.Code)
	}
	if !strings.Contains(err.Error(), "SLSBENCH_PROBSAT_PATH") {
		t.Errorf("error should mention the environment override, got: %s", err.Error())
	}
}
