// Package solver runs external local-search SAT solver executables and
// captures what they print.
package solver

import (
	"strconv"
	"strings"
	"time"
)

// Stream selects which output stream carries a solver's result line.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// String returns the stream name
func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Solver describes how to call one external solver.
type Solver interface {
	// Name identifies the solver in logs and metrics.
	Name() string
	// Path is the executable to run.
	Path() string
	// Args returns the full argument list for solving cnfPath.
	Args(cnfPath string) []string
	// Stream is where the four-integer result line appears.
	Stream() Stream
}

// Result is the captured outcome of one solver process.
type Result struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Output returns the requested stream with surrounding whitespace removed.
func (r *Result) Output(s Stream) string {
	if s == Stderr {
		return strings.TrimSpace(r.Stderr)
	}
	return strings.TrimSpace(r.Stdout)
}

const (
	DefaultGSATPath        = "./gsat2"
	DefaultProbSATPath     = "./probsat"
	DefaultGSATProbability = 0.4
	DefaultGSATSeed        = "time"
)

// GSAT is a GSAT-style solver taking a random-walk probability and a flip
// budget. It reports its result on stderr.
type GSAT struct {
	Executable  string
	Probability float64
	Seed        string
	MaxFlips    int
}

// NewGSAT returns a GSAT with the usual defaults and the given flip budget.
func NewGSAT(path string, maxFlips int) *GSAT {
	if path == "" {
		path = DefaultGSATPath
	}
	return &GSAT{
		Executable:  path,
		Probability: DefaultGSATProbability,
		Seed:        DefaultGSATSeed,
		MaxFlips:    maxFlips,
	}
}

func (g *GSAT) Name() string   { return "gsat" }
func (g *GSAT) Path() string   { return g.Executable }
func (g *GSAT) Stream() Stream { return Stderr }

// Args builds `-r <seed> -p <probability> -i <max_flips> <cnf>`.
func (g *GSAT) Args(cnfPath string) []string {
	seed := g.Seed
	if seed == "" {
		seed = DefaultGSATSeed
	}
	return []string{
		"-r", seed,
		"-p", strconv.FormatFloat(g.Probability, 'g', -1, 64),
		"-i", strconv.Itoa(g.MaxFlips),
		cnfPath,
	}
}

// ProbSAT is a probSAT-style solver invoked with just the CNF file. It
// reports its result on stdout.
type ProbSAT struct {
	Executable string
	ExtraArgs  []string
}

// NewProbSAT returns a ProbSAT for the given executable.
func NewProbSAT(path string, extra ...string) *ProbSAT {
	if path == "" {
		path = DefaultProbSATPath
	}
	return &ProbSAT{Executable: path, ExtraArgs: extra}
}

func (p *ProbSAT) Name() string   { return "probsat" }
func (p *ProbSAT) Path() string   { return p.Executable }
func (p *ProbSAT) Stream() Stream { return Stdout }

// Args returns the extra arguments followed by the CNF path.
func (p *ProbSAT) Args(cnfPath string) []string {
	args := make([]string, 0, len(p.ExtraArgs)+1)
	args = append(args, p.ExtraArgs...)
	return append(args, cnfPath)
}
