// Package record defines a single solver run and the one-line text forms it
// takes in the summary and raw logs.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Outcome is the classification of one solver run.
type Outcome int

const (
	// ParseError means the solver output was not exactly four integers.
	ParseError Outcome = iota
	// Success means every clause was satisfied.
	Success
	// Failure means the step budget ran out with clauses left unsatisfied.
	Failure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "parse_error"
	}
}

// Code returns the one-letter summary log code. ParseError has none.
func (o Outcome) Code() string {
	switch o {
	case Success:
		return "S"
	case Failure:
		return "F"
	default:
		return ""
	}
}

// ParseOutcomeCode maps a summary log outcome field to an Outcome. Only the
// exact codes "S" and "F" are accepted.
func ParseOutcomeCode(s string) (Outcome, bool) {
	switch s {
	case "S":
		return Success, true
	case "F":
		return Failure, true
	default:
		return ParseError, false
	}
}

// Result holds the four integers a local-search solver prints when it stops.
type Result struct {
	Steps     int64
	MaxSteps  int64
	Satisfied int64
	Total     int64
}

// Record is one executed trial.
type Record struct {
	File    string
	Run     int
	Outcome Outcome
	Steps   int64
	Raw     string
}

// Classify parses a solver's terminating output. The text must hold exactly
// four whitespace-separated base-10 integers; a run is a Success when the
// satisfied and total clause counts are equal. Steps is the first integer for
// both Success and Failure. Anything else yields ParseError with Steps zero.
func Classify(output string) (Outcome, Result) {
	fields := strings.Fields(output)
	if len(fields) != 4 {
		return ParseError, Result{}
	}

	var vals [4]int64
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return ParseError, Result{}
		}
		vals[i] = v
	}

	res := Result{Steps: vals[0], MaxSteps: vals[1], Satisfied: vals[2], Total: vals[3]}
	if res.Satisfied == res.Total {
		return Success, res
	}
	return Failure, res
}

// New classifies raw solver output into a Record for run idx of file.
func New(file string, idx int, raw string) Record {
	outcome, res := Classify(raw)
	return Record{
		File:    file,
		Run:     idx,
		Outcome: outcome,
		Steps:   res.Steps,
		Raw:     raw,
	}
}

const parseErrorMarker = ": Error parsing result: "

// SummaryLine renders the summary log line for r, without the trailing newline.
func (r Record) SummaryLine() string {
	if r.Outcome == ParseError {
		return fmt.Sprintf("%s;run %d%s%s", r.File, r.Run, parseErrorMarker, oneLine(r.Raw))
	}
	return fmt.Sprintf("%s;run %d;%s;%d", r.File, r.Run, r.Outcome.Code(), r.Steps)
}

// RawLine renders the raw log line for r, without the trailing newline.
func (r Record) RawLine() string {
	return fmt.Sprintf("%s; run %d;%s", r.File, r.Run, oneLine(r.Raw))
}

// oneLine escapes line breaks so every record stays on a single log line.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "\r", `\n`)
}
