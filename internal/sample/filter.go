package sample

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kop-cichra/slsbench/internal/errors"
)

const (
	// IQRMultiplier widens the quartile fences.
	IQRMultiplier = 2.0
	// UpperCap bounds the upper fence regardless of the data.
	UpperCap = 10000.0
)

// Filtered is a sample with its outliers removed.
type Filtered struct {
	// Values keeps the surviving points in their original order.
	Values []int64
	Lower  float64
	Upper  float64
	Q1     float64
	Q3     float64
	IQR    float64
}

func toFloats(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func sortedFloats(values []int64) []float64 {
	out := toFloats(values)
	sort.Float64s(out)
	return out
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between the two closest ranks, pos = p/100*(n-1). It returns
// NaN for an empty slice.
func Percentile(values []int64, p float64) float64 {
	return percentileSorted(sortedFloats(values), p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	p = math.Max(0, math.Min(100, p))
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// FilterOutliers drops points outside [max(0, Q1-2*IQR), min(10000, Q3+2*IQR)].
func FilterOutliers(values []int64) (Filtered, error) {
	if len(values) == 0 {
		return Filtered{}, errors.New(errors.ErrCodeNoData, "no successful runs found in the log")
	}

	sorted := sortedFloats(values)
	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1

	f := Filtered{
		Lower: math.Max(0, q1-IQRMultiplier*iqr),
		Upper: math.Min(UpperCap, q3+IQRMultiplier*iqr),
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
	}
	f.Values = make([]int64, 0, len(values))
	for _, v := range values {
		if x := float64(v); x >= f.Lower && x <= f.Upper {
			f.Values = append(f.Values, v)
		}
	}
	return f, nil
}

// Stats describes a step-count sample.
type Stats struct {
	Count  int     `json:"count" yaml:"count"`
	Min    int64   `json:"min" yaml:"min"`
	Max    int64   `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	P90    float64 `json:"p90" yaml:"p90"`
	IQR    float64 `json:"iqr" yaml:"iqr"`
	Lower  float64 `json:"lower" yaml:"lower"`
	Upper  float64 `json:"upper" yaml:"upper"`
	// Kept is how many points survive FilterOutliers.
	Kept int `json:"kept" yaml:"kept"`
}

// Describe summarises values. An empty sample yields ErrNoData.
func Describe(values []int64) (Stats, error) {
	f, err := FilterOutliers(values)
	if err != nil {
		return Stats{}, err
	}

	sorted := sortedFloats(values)
	s := Stats{
		Count:  len(values),
		Min:    slices.Min(values),
		Max:    slices.Max(values),
		Mean:   stat.Mean(sorted, nil),
		Q1:     f.Q1,
		Median: percentileSorted(sorted, 50),
		Q3:     f.Q3,
		P90:    percentileSorted(sorted, 90),
		IQR:    f.IQR,
		Lower:  f.Lower,
		Upper:  f.Upper,
		Kept:   len(f.Values),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s, nil
}
