// Package cnf inspects the DIMACS CNF inputs handed to the solvers.
package cnf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// Info summarises a CNF file.
type Info struct {
	Path string `json:"path" yaml:"path"`
	// HeaderVars and HeaderClauses are what the "p cnf" line declares.
	HeaderVars    int `json:"header_vars" yaml:"header_vars"`
	HeaderClauses int `json:"header_clauses" yaml:"header_clauses"`
	// Vars, Clauses and Units describe the problem after parsing and unit
	// simplification.
	Vars           int  `json:"vars" yaml:"vars"`
	Clauses        int  `json:"clauses" yaml:"clauses"`
	Units          int  `json:"units" yaml:"units"`
	TriviallyUnsat bool `json:"trivially_unsat" yaml:"trivially_unsat"`
}

// Verdict is the answer of a complete solver.
type Verdict int

const (
	Unknown Verdict = iota
	Sat
	Unsat
)

// String returns the verdict name
func (v Verdict) String() string {
	switch v {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// load reads path and drops the SATLIB trailer: benchmark files such as
// uf20-91 end with a "%" line followed by a stray "0" that DIMACS parsers
// reject. It also returns the header counts.
func load(path string) ([]byte, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, 0, errors.NewFileNotFoundError(path)
		}
		return nil, 0, 0, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	defer f.Close()

	var (
		buf          bytes.Buffer
		vars, clause int
		header       bool
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "%") {
			break
		}
		if strings.HasPrefix(line, "p ") {
			if _, err := fmt.Sscanf(line, "p cnf %d %d", &vars, &clause); err != nil {
				return nil, 0, 0, errors.Wrap(errors.ErrCodeCNFParse, fmt.Sprintf("bad header in %s", path), err)
			}
			header = true
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	if !header {
		return nil, 0, 0, errors.New(errors.ErrCodeCNFParse, fmt.Sprintf("no \"p cnf\" header in %s", path))
	}
	return buf.Bytes(), vars, clause, nil
}

// Inspect parses the file and reports its size.
func Inspect(path string) (*Info, error) {
	data, vars, clauses, err := load(path)
	if err != nil {
		return nil, err
	}

	pb, err := solver.ParseCNF(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCNFParse, fmt.Sprintf("cannot parse %s", path), err)
	}

	return &Info{
		Path:           path,
		HeaderVars:     vars,
		HeaderClauses:  clauses,
		Vars:           pb.NbVars,
		Clauses:        len(pb.Clauses),
		Units:          len(pb.Units),
		TriviallyUnsat: pb.Status == solver.Unsat,
	}, nil
}

// pollInterval is how often CheckSatisfiable looks at the background solve.
const pollInterval = 10 * time.Millisecond

// CheckSatisfiable runs a complete CDCL solver on the file for at most
// timeout. Local search never proves unsatisfiability, so an Unsat verdict
// explains a batch made only of failures. Unknown is returned on timeout.
func CheckSatisfiable(ctx context.Context, path string, timeout time.Duration) (Verdict, error) {
	data, _, _, err := load(path)
	if err != nil {
		return Unknown, err
	}
	g, err := gini.NewDimacs(bytes.NewReader(data))
	if err != nil {
		return Unknown, errors.Wrap(errors.ErrCodeCNFParse, fmt.Sprintf("cannot parse %s", path), err)
	}

	return wait(ctx, g.GoSolve(), timeout)
}

type background interface {
	Test() (int, bool)
	Stop() int
}

func wait(ctx context.Context, s background, timeout time.Duration) (Verdict, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if res, done := s.Test(); done {
			return verdict(res), nil
		}
		if time.Now().After(deadline) {
			return verdict(s.Stop()), nil
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return Unknown, ctx.Err()
		case <-ticker.C:
		}
	}
}

func verdict(res int) Verdict {
	switch res {
	case 1:
		return Sat
	case -1:
		return Unsat
	default:
		return Unknown
	}
}
