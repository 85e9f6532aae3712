package cmd

import (
	"fmt"
	"strconv"

	"github.com/kop-cichra/slsbench/internal/errors"
)

// intArg parses a positional integer argument that must be at least min.
func intArg(name, value string, least int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s must be an integer, got %q", name, value), err)
	}
	if n < least {
		return 0, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s must be >= %d, got %d", name, least, n))
	}
	return n, nil
}
