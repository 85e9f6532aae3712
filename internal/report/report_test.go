package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/sample"
)

func seq(lo, hi int64) []int64 {
	var out []int64
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func TestParseBinRule(t *testing.T) {
	tests := []struct {
		in   string
		want BinRule
		err  bool
	}{
		{"auto", BinRule{Name: "auto"}, false},
		{"", BinRule{Name: "auto"}, false},
		{"Sturges", BinRule{Name: "sturges"}, false},
		{"fd", BinRule{Name: "fd"}, false},
		{"25", BinRule{Count: 25}, false},
		{"0", BinRule{}, true},
		{"-3", BinRule{}, true},
		{"lots", BinRule{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinRule(tt.in)
			if tt.err {
				assert.Equal(t, errors.ErrCodeBinCount, errors.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinRuleResolve(t *testing.T) {
	values := seq(1, 100)
	assert.Equal(t, DefaultBinCount, BinRule{Name: "auto"}.Resolve(values))
	assert.Equal(t, DefaultBinCount, BinRule{}.Resolve(values))
	assert.Equal(t, 7, BinRule{Count: 7}.Resolve(values))
	assert.Equal(t, 8, BinRule{Name: "sturges"}.Resolve(values))
	// IQR 49.5, width 2*49.5/cbrt(100) = 21.33, span 99
	assert.Equal(t, 5, BinRule{Name: "fd"}.Resolve(values))
	assert.Equal(t, 1, BinRule{Name: "fd"}.Resolve([]int64{4, 4, 4}))
	assert.Equal(t, "fd", BinRule{Name: "fd"}.String())
	assert.Equal(t, "12", BinRule{Count: 12}.String())
}

func TestBin(t *testing.T) {
	bins, err := Bin(seq(1, 10), 3)
	require.NoError(t, err)

	want := []BinRange{{1, 4, 3}, {4, 7, 3}, {7, 10, 4}}
	if diff := cmp.Diff(want, bins); diff != "" {
		t.Errorf("bins mismatch (-want +got):\n%s", diff)
	}
}

func TestBinSingleValue(t *testing.T) {
	bins, err := Bin([]int64{5, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []BinRange{{4.5, 5, 0}, {5, 5.5, 2}}, bins)
}

func TestBinCountsEveryValue(t *testing.T) {
	values := []int64{3, 17, 17, 250, 1024, 9999, 42, 7, 7, 7, 601}
	for n := 1; n <= 40; n++ {
		bins, err := Bin(values, n)
		require.NoError(t, err)
		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, len(values), total, "n=%d", n)
	}
}

func TestBinErrors(t *testing.T) {
	_, err := Bin(nil, 10)
	assert.ErrorIs(t, err, sample.ErrNoData)

	_, err = Bin([]int64{1}, 0)
	assert.Equal(t, errors.ErrCodeBinCount, errors.Code(err))
}

func TestWriteBinTable(t *testing.T) {
	bins, err := Bin(seq(1, 10), 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteBinTable(&buf, nil, bins, 5.5, 9.1)

	assert.Equal(t, `Bin range 1.00 - 4.00: 3 entries
Bin range 4.00 - 7.00: 3 entries
50th Percentile: 5.50 (3 entries, ~ 6)
Bin range 7.00 - 10.00: 4 entries
90th Percentile: 9.10 (4 entries, ~ 10)
Total entries: 10
`, buf.String())
}

func TestCDFPoints(t *testing.T) {
	pts := CDFPoints([]int64{10, 20, 20, 40})
	assert.Equal(t, plotter.XYs{{X: 10, Y: 0.25}, {X: 20, Y: 0.5}, {X: 20, Y: 0.75}, {X: 40, Y: 1}}, pts)

	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, pts[i].X, pts[i-1].X)
		assert.Greater(t, pts[i].Y, pts[i-1].Y)
	}
}

func TestCommonName(t *testing.T) {
	assert.Equal(t, "uf20-01.log", CommonName("logs/gsat2_uf20-01.log"))
	assert.Equal(t, "uf20-01.log", CommonName("probsat_uf20-01.log"))
	assert.Equal(t, "plain.log", CommonName("/tmp/plain.log"))
}

func assertImage(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cdf.png")
	s := Series{Source: "logs/uf20-01.log", Steps: append(seq(1, 9), 100)}

	require.NoError(t, CDF(s, out, Options{}))
	assertImage(t, out)
}

func TestCDFEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cdf.png")
	err := CDF(Series{Source: "empty.log"}, out, Options{})
	assert.ErrorIs(t, err, sample.ErrNoData)
	assert.NoFileExists(t, out)
}

func TestCDFUnknownExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cdf.bmpx")
	err := CDF(Series{Source: "a.log", Steps: []int64{1, 2}}, out, Options{})
	assert.Equal(t, errors.ErrCodeReportRender, errors.Code(err))
}

func TestOverlayCDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overlay.svg")
	var console bytes.Buffer

	err := OverlayCDF(
		Series{Source: "gsat2_uf20.log", Steps: seq(10, 60)},
		Series{Source: "probsat_uf20.log", Steps: seq(5, 30), Label: "probSAT"},
		out, Options{Out: &console})
	require.NoError(t, err)

	assertImage(t, out)
	assert.Equal(t, "Plot saved to "+out+"\n", console.String())
}

func TestOverlayCDFEmptySecond(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overlay.png")
	err := OverlayCDF(Series{Steps: []int64{1}}, Series{Source: "b.log"}, out, Options{})
	assert.ErrorIs(t, err, sample.ErrNoData)
}

func TestHistogram(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hist.png")
	var console bytes.Buffer

	err := Histogram(Series{Source: "uf20.log", Steps: seq(1, 10)}, out,
		Options{Bins: BinRule{Count: 3}, Out: &console, Width: 4 * vg.Inch, Height: 3 * vg.Inch})
	require.NoError(t, err)

	assertImage(t, out)
	assert.Contains(t, console.String(), "50th Percentile: 5.50 (3 entries, ~ 6)")
	assert.Contains(t, console.String(), "Total entries: 10")
}

func TestHistogramFilterOutliers(t *testing.T) {
	steps := append(seq(1, 9), 100)
	var unfiltered, filtered bytes.Buffer
	dir := t.TempDir()

	require.NoError(t, Histogram(Series{Source: "a.log", Steps: steps}, filepath.Join(dir, "a.png"),
		Options{Out: &unfiltered}))
	require.NoError(t, Histogram(Series{Source: "a.log", Steps: steps}, filepath.Join(dir, "b.png"),
		Options{Out: &filtered, FilterOutliers: true}))

	assert.Contains(t, unfiltered.String(), "Total entries: 10")
	assert.Contains(t, filtered.String(), "Total entries: 9")
}

func TestOverlayHistogram(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overlay-hist.pdf")
	var console bytes.Buffer

	err := OverlayHistogram(
		Series{Source: "gsat2_uf20.log", Steps: seq(100, 400)},
		Series{Source: "probsat_uf20.log", Steps: seq(50, 120)},
		out, Options{Bins: BinRule{Name: "sturges"}, Out: &console})
	require.NoError(t, err)

	assertImage(t, out)
	assert.Equal(t, "Plot saved to "+out+"\n", console.String())
}

func binTotal(bins []BinRange) int {
	n := 0
	for _, b := range bins {
		n += b.Count
	}
	return n
}

func TestCDFAllAboveCap(t *testing.T) {
	s := Series{Source: "a.log", Steps: []int64{20000, 20001, 20002}}

	p, err := cdfPlot(s)
	require.NoError(t, err)
	assert.Equal(t, sample.UpperCap, p.X.Max)

	out := filepath.Join(t.TempDir(), "cdf.png")
	require.NoError(t, CDF(s, out, Options{}))
	assertImage(t, out)
}

func TestOverlayCDFCappedSample(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overlay.png")
	var console bytes.Buffer

	err := OverlayCDF(
		Series{Source: "a.log", Steps: []int64{1, 2, 3}},
		Series{Source: "b.log", Steps: []int64{20000, 20001, 20002}},
		out, Options{Out: &console})
	require.NoError(t, err)

	assertImage(t, out)
	assert.Equal(t, "Plot saved to "+out+"\n", console.String())
}

func TestHistogramAllOutliersFiltered(t *testing.T) {
	s := Series{Source: "a.log", Steps: []int64{20000, 20001, 20002}}
	dir := t.TempDir()

	err := Histogram(s, filepath.Join(dir, "filtered.png"), Options{FilterOutliers: true, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAllOutliers, errors.Code(err))
	assert.NotErrorIs(t, err, sample.ErrNoData)
	assert.NoFileExists(t, filepath.Join(dir, "filtered.png"))

	var console bytes.Buffer
	require.NoError(t, Histogram(s, filepath.Join(dir, "raw.png"), Options{Out: &console}))
	assert.Contains(t, console.String(), "Total entries: 3")
}

func TestOverlayAxisRunsToLargerUpperFence(t *testing.T) {
	// upper fences: 16.75 for a, 34.25 for b
	a := Series{Source: "gsat2_uf20.log", Steps: append(seq(1, 9), 100)}
	b := Series{Source: "probsat_uf20.log", Steps: seq(1, 20)}

	t.Run("cdf", func(t *testing.T) {
		p, err := overlayCDFPlot(a, b)
		require.NoError(t, err)
		assert.Equal(t, 0.0, p.X.Min)
		assert.Equal(t, 34.25, p.X.Max)

		p, err = overlayCDFPlot(b, a)
		require.NoError(t, err)
		assert.Equal(t, 34.25, p.X.Max)
	})

	t.Run("histogram unfiltered bars", func(t *testing.T) {
		p, bins, err := overlayHistogramPlot(a, b, Options{Bins: BinRule{Count: 4}})
		require.NoError(t, err)
		assert.Equal(t, 34.25, p.X.Max)
		assert.Equal(t, 10, binTotal(bins[0]))
		assert.Equal(t, 20, binTotal(bins[1]))
		assert.Equal(t, 100.0, bins[0][len(bins[0])-1].Hi)
	})

	t.Run("histogram filtered bars", func(t *testing.T) {
		p, bins, err := overlayHistogramPlot(a, b, Options{Bins: BinRule{Count: 4}, FilterOutliers: true})
		require.NoError(t, err)
		assert.Equal(t, 34.25, p.X.Max)
		assert.Equal(t, 9, binTotal(bins[0]))
		assert.Equal(t, 20, binTotal(bins[1]))
	})
}
