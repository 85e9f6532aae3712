// Package batch repeats a solver against one CNF file and appends every run
// to a summary log and a raw log.
package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kop-cichra/slsbench/internal/cnf"
	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/log"
	"github.com/kop-cichra/slsbench/internal/metrics"
	"github.com/kop-cichra/slsbench/internal/record"
	"github.com/kop-cichra/slsbench/internal/solver"
)

// RawSuffix is appended to the summary log path to name the raw log.
const RawSuffix = ".raw"

// Spec describes one batch.
type Spec struct {
	Runs    int
	CNFPath string
	OutPath string
}

// Summary counts what a batch produced.
type Summary struct {
	BatchID    string    `json:"batch_id"`
	Solver     string    `json:"solver"`
	Runs       int       `json:"runs"`
	Success    int       `json:"success"`
	Failure    int       `json:"failure"`
	ParseError int       `json:"parse_error"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
}

func (s *Summary) add(r record.Record) {
	s.Runs++
	switch r.Outcome {
	case record.Success:
		s.Success++
	case record.Failure:
		s.Failure++
	default:
		s.ParseError++
	}
}

// Observer is told about every record after it is written.
type Observer interface {
	Observe(record.Record)
}

// Runner executes batches. Workers <= 1 runs strictly one solver at a time.
type Runner struct {
	Invoker  *solver.Invoker
	Solver   solver.Solver
	Workers  int
	Logger   *log.Logger
	Metrics  *metrics.Metrics
	Observer Observer

	// Preflight parses the CNF file before the first run and logs its size.
	Preflight bool
	// Manifest writes <out>.manifest.json after the batch.
	Manifest bool
}

type logFiles struct {
	summary *os.File
	raw     *os.File
}

func openLogs(out string) (*logFiles, error) {
	const flags = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	summary, err := os.OpenFile(out, flags, 0o644)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("cannot open %s", out), err)
	}
	raw, err := os.OpenFile(out+RawSuffix, flags, 0o644)
	if err != nil {
		summary.Close()
		return nil, errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("cannot open %s", out+RawSuffix), err)
	}
	return &logFiles{summary: summary, raw: raw}, nil
}

// write appends one line to each log. Each line goes out in a single write
// call on an O_APPEND descriptor, so an interruption never leaves half a line.
func (l *logFiles) write(r record.Record) error {
	if _, err := l.raw.WriteString(r.RawLine() + "\n"); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot append raw log", err)
	}
	if _, err := l.summary.WriteString(r.SummaryLine() + "\n"); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot append summary log", err)
	}
	return nil
}

func (l *logFiles) Close() error {
	return stderrors.Join(l.summary.Close(), l.raw.Close())
}

// Run executes spec.Runs independent runs and appends them to the logs.
// A run whose output cannot be parsed is logged and the batch continues; an
// error starting the solver aborts the batch and is returned along with the
// summary of the runs already written.
func (r *Runner) Run(ctx context.Context, spec Spec) (*Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	if r.Invoker == nil {
		r.Invoker = &solver.Invoker{}
	}

	summary := &Summary{
		BatchID: uuid.NewString(),
		Solver:  r.Solver.Name(),
		Started: time.Now(),
	}
	logger = logger.With("batch_id", summary.BatchID, "solver", summary.Solver)

	if spec.Runs < 0 {
		return summary, errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("run count must be >= 0, got %d", spec.Runs))
	}

	if r.Preflight {
		info, err := cnf.Inspect(spec.CNFPath)
		if err != nil {
			return summary, err
		}
		logger.Info("cnf inspected", "file", spec.CNFPath, "vars", info.Vars, "clauses", info.Clauses, "units", info.Units)
	}

	files, err := openLogs(spec.OutPath)
	if err != nil {
		return summary, err
	}
	defer files.Close()

	r.Metrics.RecordBatchStart(summary.Solver)
	logger.Info("batch started", "runs", spec.Runs, "input", spec.CNFPath, "log", spec.OutPath, "workers", max(r.Workers, 1))

	if r.Workers > 1 {
		err = r.runParallel(ctx, spec, files, summary, logger)
	} else {
		err = r.runSequential(ctx, spec, files, summary, logger)
	}
	summary.Finished = time.Now()

	if err != nil {
		r.Metrics.RecordBatchError(summary.Solver, string(errors.Code(err)))
		logger.WithError(err).Error("batch aborted", "completed", summary.Runs)
		return summary, err
	}

	logger.Info("batch finished",
		"success", summary.Success,
		"failure", summary.Failure,
		"parse_error", summary.ParseError,
		"duration", summary.Finished.Sub(summary.Started))

	if r.Manifest {
		m, err := NewManifest(summary, r.Solver, spec)
		if err != nil {
			return summary, err
		}
		if err := m.Save(spec.OutPath + ManifestSuffix); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (r *Runner) runSequential(ctx context.Context, spec Spec, files *logFiles, summary *Summary, logger *log.Logger) error {
	base := filepath.Base(spec.CNFPath)
	for i := 0; i < spec.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Invoker.Invoke(ctx, r.Solver, spec.CNFPath)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if err := r.commit(files, summary, logger, record.New(base, i, res.Output(r.Solver.Stream())), res); err != nil {
			return err
		}
	}
	return nil
}

type runOutput struct {
	res *solver.Result
	err error
}

// runParallel overlaps solver processes but commits records strictly in run
// order from this goroutine, so the logs look exactly like a sequential batch.
// A failed run stops further launches without cancelling the runs already in
// flight, so the error returned is always the one of the lowest failed run.
func (r *Runner) runParallel(parent context.Context, spec Spec, files *logFiles, summary *Summary, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(r.Workers)

	slots := make([]chan runOutput, spec.Runs)
	for i := range slots {
		slots[i] = make(chan runOutput, 1)
	}

	var failed atomic.Bool
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := 0; i < spec.Runs; i++ {
			i := i
			// a skipped slot always follows a failed one, which is committed first
			if err := ctx.Err(); err != nil || failed.Load() {
				slots[i] <- runOutput{err: context.Canceled}
				continue
			}
			g.Go(func() error {
				res, err := r.Invoker.Invoke(ctx, r.Solver, spec.CNFPath)
				if err != nil {
					failed.Store(true)
					err = fmt.Errorf("run %d: %w", i, err)
				}
				slots[i] <- runOutput{res: res, err: err}
				return err
			})
		}
	}()

	base := filepath.Base(spec.CNFPath)
	var runErr error
	for i := 0; i < spec.Runs; i++ {
		out := <-slots[i]
		if out.err != nil {
			runErr = out.err
			break
		}
		if err := r.commit(files, summary, logger, record.New(base, i, out.res.Output(r.Solver.Stream())), out.res); err != nil {
			runErr = err
			break
		}
	}

	cancel()
	<-launched
	_ = g.Wait()

	if runErr != nil && parent.Err() != nil {
		return parent.Err()
	}
	return runErr
}

func (r *Runner) commit(files *logFiles, summary *Summary, logger *log.Logger, rec record.Record, res *solver.Result) error {
	if err := files.write(rec); err != nil {
		return err
	}
	summary.add(rec)
	r.Metrics.RecordRun(summary.Solver, rec.Outcome.String(), rec.Steps, res.Duration)
	if rec.Outcome == record.ParseError {
		logger.Warn("unparseable solver output", "run", rec.Run, "exit_code", res.ExitCode, "output", rec.Raw)
	} else {
		logger.Debug("run finished", "run", rec.Run, "outcome", rec.Outcome.Code(), "steps", rec.Steps, "duration", res.Duration)
	}
	if r.Observer != nil {
		r.Observer.Observe(rec)
	}
	return nil
}
