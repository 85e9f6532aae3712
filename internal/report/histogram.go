package report

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/sample"
	"github.com/kop-cichra/slsbench/internal/ux"
)

// histSeries is a sample prepared for a histogram: the values to bin, the
// upper fence used as the X bound and the P50/P90 markers.
type histSeries struct {
	values []int64
	upper  float64
	p50    float64
	p90    float64
}

func prepare(s Series, filter bool) (*histSeries, error) {
	if len(s.Steps) == 0 {
		return nil, errors.NewNoDataError(s.Source)
	}
	f, err := sample.FilterOutliers(s.Steps)
	if err != nil {
		return nil, err
	}

	values := s.Steps
	if filter {
		values = f.Values
	}
	if len(values) == 0 {
		return nil, errors.NewAllOutliersError(s.Source, len(s.Steps), f.Upper)
	}
	return &histSeries{
		values: values,
		upper:  f.Upper,
		p50:    sample.Percentile(values, 50),
		p90:    sample.Percentile(values, 90),
	}, nil
}

func newHistogram(bins []BinRange, fill color.Color) *plotter.Histogram {
	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: float64(b.Count)}
	}
	return &plotter.Histogram{
		Bins:      hb,
		Width:     bins[0].Hi - bins[0].Lo,
		FillColor: fill,
		LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(1)},
	}
}

func tallest(bins []BinRange) float64 {
	top := 0
	for _, b := range bins {
		top = max(top, b.Count)
	}
	return float64(top)
}

// WriteBinTable prints one line per bin, a percentile line after the bin
// holding each marker, and the total.
func WriteBinTable(w io.Writer, st *ux.Styles, bins []BinRange, p50, p90 float64) {
	if st == nil {
		st = ux.NewStyles(w, true)
	}
	total := 0
	for _, b := range bins {
		fmt.Fprintf(w, "Bin range %.2f - %.2f: %d entries\n", b.Lo, b.Hi, b.Count)
		total += b.Count
		if b.Contains(p50) {
			fmt.Fprintln(w, st.Highlight.Render(fmt.Sprintf("50th Percentile: %.2f (%d entries, ~ %d)", p50, b.Count, total)))
		}
		if b.Contains(p90) {
			fmt.Fprintln(w, st.Highlight.Render(fmt.Sprintf("90th Percentile: %.2f (%d entries, ~ %d)", p90, b.Count, total)))
		}
	}
	fmt.Fprintf(w, "Total entries: %d\n", total)
}

func histogramPlot(s Series, opts Options) (*plot.Plot, []BinRange, *histSeries, error) {
	hs, err := prepare(s, opts.FilterOutliers)
	if err != nil {
		return nil, nil, nil, err
	}
	bins, err := Bin(hs.values, opts.Bins.Resolve(hs.values))
	if err != nil {
		return nil, nil, nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Histogram -'%s'", filepath.Base(s.Source))
	p.X.Label.Text = "Steps"
	p.Y.Label.Text = "Frequency"
	p.Legend.Top = true

	p.Add(newHistogram(bins, colorFill))

	top := tallest(bins)
	m50, err := vline(hs.p50, top, colorRed, dashed)
	if err != nil {
		return nil, nil, nil, err
	}
	m90, err := vline(hs.p90, top, colorGreen, dashed)
	if err != nil {
		return nil, nil, nil, err
	}
	p.Add(m50, m90)
	p.Legend.Add(fmt.Sprintf("50th Percentile (%.2f)", hs.p50), m50)
	p.Legend.Add(fmt.Sprintf("90th Percentile (%.2f)", hs.p90), m90)

	p.X.Min, p.X.Max = 0, hs.upper
	p.Y.Min = 0
	return p, bins, hs, nil
}

// Histogram plots the step-count histogram with P50 and P90 markers and
// prints the bin table to opts.Out.
func Histogram(s Series, output string, opts Options) error {
	p, bins, hs, err := histogramPlot(s, opts)
	if err != nil {
		return err
	}

	WriteBinTable(opts.out(), opts.styles(), bins, hs.p50, hs.p90)

	w, h := opts.size(SingleWidth, SingleHeight)
	return save(p, w, h, output)
}

// overlayHistogramPlot bins each sample over its own range with the same bin
// count. The X axis runs to the larger upper fence even when the bars come
// from unfiltered samples.
func overlayHistogramPlot(a, b Series, opts Options) (*plot.Plot, [2][]BinRange, error) {
	var bins [2][]BinRange
	ha, err := prepare(a, opts.FilterOutliers)
	if err != nil {
		return nil, bins, err
	}
	hb, err := prepare(b, opts.FilterOutliers)
	if err != nil {
		return nil, bins, err
	}
	label1, label2 := labels(a, b)

	// a rule such as fd resolves on the first sample and applies to both
	n := opts.Bins.Resolve(ha.values)
	if bins[0], err = Bin(ha.values, n); err != nil {
		return nil, bins, err
	}
	if bins[1], err = Bin(hb.values, n); err != nil {
		return nil, bins, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Overlayed Histogram - '%s'", CommonName(a.Source))
	p.X.Label.Text = "Number of Steps"
	p.Y.Label.Text = "Frequency"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	histA := newHistogram(bins[0], color.NRGBA{R: 0, G: 0, B: 255, A: 128})
	histB := newHistogram(bins[1], color.NRGBA{R: 0, G: 128, B: 0, A: 128})
	p.Add(histA, histB)
	p.Legend.Add(label1, histA)
	p.Legend.Add(label2, histB)

	top := max(tallest(bins[0]), tallest(bins[1]))
	for _, m := range []struct {
		label  string
		x      float64
		c      color.Color
		dashes []vg.Length
	}{
		{fmt.Sprintf("%s - 50th Percentile (%.2f)", label1, ha.p50), ha.p50, colorBlue, dashed},
		{fmt.Sprintf("%s - 90th Percentile (%.2f)", label1, ha.p90), ha.p90, colorBlue, dotted},
		{fmt.Sprintf("%s - 50th Percentile (%.2f)", label2, hb.p50), hb.p50, colorGreen, dashed},
		{fmt.Sprintf("%s - 90th Percentile (%.2f)", label2, hb.p90), hb.p90, colorGreen, dotted},
	} {
		l, err := vline(m.x, top, m.c, m.dashes)
		if err != nil {
			return nil, bins, err
		}
		p.Add(l)
		p.Legend.Add(m.label, l)
	}

	p.X.Min, p.X.Max = 0, max(ha.upper, hb.upper)
	p.Y.Min = 0
	return p, bins, nil
}

// OverlayHistogram draws the histograms of two samples semi-transparently on
// shared axes.
func OverlayHistogram(a, b Series, output string, opts Options) error {
	p, _, err := overlayHistogramPlot(a, b, opts)
	if err != nil {
		return err
	}
	w, h := opts.size(OverlayWidth, OverlayHeight)
	if err := save(p, w, h, output); err != nil {
		return err
	}
	saved(opts, output)
	return nil
}
