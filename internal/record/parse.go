package record

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSummaryLine parses one summary log line back into a Record. Fields are
// read from the right so a file name containing ';' still parses. Parse-error
// lines come back with Outcome ParseError and the logged raw text.
func ParseSummaryLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")

	if i := strings.Index(line, parseErrorMarker); i >= 0 {
		head := line[:i]
		sep := strings.LastIndex(head, ";run ")
		if sep < 0 {
			return Record{}, fmt.Errorf("malformed parse-error line %q", line)
		}
		idx, err := strconv.Atoi(head[sep+len(";run "):])
		if err != nil {
			return Record{}, fmt.Errorf("malformed run index in %q: %w", line, err)
		}
		return Record{
			File:    head[:sep],
			Run:     idx,
			Outcome: ParseError,
			Raw:     line[i+len(parseErrorMarker):],
		}, nil
	}

	fields := strings.Split(line, ";")
	n := len(fields)
	if n < 4 {
		return Record{}, fmt.Errorf("expected at least 4 fields, got %d in %q", n, line)
	}

	outcome, ok := ParseOutcomeCode(fields[n-2])
	if !ok {
		return Record{}, fmt.Errorf("unknown outcome code %q", fields[n-2])
	}

	steps, err := strconv.ParseInt(fields[n-1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("malformed step count %q: %w", fields[n-1], err)
	}

	runField, ok := strings.CutPrefix(fields[n-3], "run ")
	if !ok {
		return Record{}, fmt.Errorf("malformed run field %q", fields[n-3])
	}
	idx, err := strconv.Atoi(runField)
	if err != nil {
		return Record{}, fmt.Errorf("malformed run index %q: %w", runField, err)
	}

	return Record{
		File:    strings.Join(fields[:n-3], ";"),
		Run:     idx,
		Outcome: outcome,
		Steps:   steps,
	}, nil
}
