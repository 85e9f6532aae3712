// Package sample turns summary logs into step-count samples and trims their
// outliers.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/log"
	"github.com/kop-cichra/slsbench/internal/record"
)

// ErrNoData matches any error reporting an empty sample.
var ErrNoData = errors.Sentinel(errors.ErrCodeNoData)

// LogScan is the result of reading one summary log.
type LogScan struct {
	// Steps holds the step count of every Success line in file order.
	Steps      []int64 `json:"steps" yaml:"steps"`
	Success    int     `json:"success" yaml:"success"`
	Failure    int     `json:"failure" yaml:"failure"`
	ParseError int     `json:"parse_error" yaml:"parse_error"`
	Malformed  int     `json:"malformed" yaml:"malformed"`
}

// Runs is the number of well-formed run lines read.
func (s *LogScan) Runs() int {
	return s.Success + s.Failure + s.ParseError
}

// ReadFile reads the summary log at path.
func ReadFile(path string) (*LogScan, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	defer f.Close()

	scan, err := read(f, log.DefaultLogger().With("file", path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	return scan, nil
}

// Read reads a summary log. Lines that are neither run lines nor parse-error
// lines are counted as malformed and skipped.
func Read(r io.Reader) (*LogScan, error) {
	return read(r, log.DefaultLogger())
}

func read(r io.Reader, logger *log.Logger) (*LogScan, error) {
	scan := &LogScan{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := record.ParseSummaryLine(line)
		if err != nil {
			scan.Malformed++
			logger.Warn("skipping malformed log line", "line", lineNo, "error", err)
			continue
		}

		switch rec.Outcome {
		case record.Success:
			scan.Success++
			scan.Steps = append(scan.Steps, rec.Steps)
		case record.Failure:
			scan.Failure++
		default:
			scan.ParseError++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return scan, nil
}
