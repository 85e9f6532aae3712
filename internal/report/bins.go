package report

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/sample"
)

// DefaultBinCount is the number of bins the "auto" rule picks.
const DefaultBinCount = 10

// BinRule chooses how many histogram bins to draw.
type BinRule struct {
	// Name is "auto", "sturges", "fd", or empty for a fixed Count.
	Name  string
	Count int
}

// String returns the rule as it is written on the command line.
func (r BinRule) String() string {
	if r.Name != "" {
		return r.Name
	}
	return strconv.Itoa(r.Count)
}

// ParseBinRule accepts a positive integer or one of auto, sturges and fd.
func ParseBinRule(s string) (BinRule, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "auto":
		return BinRule{Name: "auto"}, nil
	case "sturges", "fd":
		return BinRule{Name: v}, nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return BinRule{}, errors.New(errors.ErrCodeBinCount,
				fmt.Sprintf("invalid bin count %q", s)).
				WithSuggestion("Use a positive integer or one of: auto, sturges, fd")
		}
		return BinRule{Count: n}, nil
	}
}

// Resolve returns the bin count for values.
func (r BinRule) Resolve(values []int64) int {
	switch r.Name {
	case "sturges":
		return sturges(len(values))
	case "fd":
		return freedmanDiaconis(values)
	case "", "auto":
		if r.Count > 0 {
			return r.Count
		}
		return DefaultBinCount
	default:
		return DefaultBinCount
	}
}

func sturges(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)) + 1))
}

func freedmanDiaconis(values []int64) int {
	if len(values) == 0 {
		return 1
	}
	iqr := sample.Percentile(values, 75) - sample.Percentile(values, 25)
	width := 2 * iqr / math.Cbrt(float64(len(values)))
	span := float64(slices.Max(values) - slices.Min(values))
	if width <= 0 || span <= 0 {
		return 1
	}
	return int(math.Ceil(span / width))
}

// BinRange is one histogram bin. Every bin is half open except the last, which
// also holds its upper edge.
type BinRange struct {
	Lo    float64
	Hi    float64
	Count int
}

// Contains reports whether x falls in [Lo, Hi).
func (b BinRange) Contains(x float64) bool {
	return x >= b.Lo && x < b.Hi
}

// Bin splits the range of values into n equal-width bins. When all values
// are equal the range is widened to [v-0.5, v+0.5].
func Bin(values []int64, n int) ([]BinRange, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no successful runs found in the log")
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeBinCount, fmt.Sprintf("bin count must be >= 1, got %d", n))
	}

	lo := float64(slices.Min(values))
	hi := float64(slices.Max(values))
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[n] = hi

	bins := make([]BinRange, n)
	for i := range bins {
		bins[i] = BinRange{Lo: edges[i], Hi: edges[i+1]}
	}

	norm := float64(n) / (hi - lo)
	for _, v := range values {
		x := float64(v)
		i := int((x - lo) * norm)
		if i >= n {
			i = n - 1
		}
		// rounding can put x one bin off its edges
		if i > 0 && x < edges[i] {
			i--
		} else if i < n-1 && x >= edges[i+1] {
			i++
		}
		bins[i].Count++
	}
	return bins, nil
}
