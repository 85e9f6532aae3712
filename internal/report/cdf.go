package report

import (
	"fmt"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/log"
	"github.com/kop-cichra/slsbench/internal/sample"
)

// CDFPoints returns the empirical CDF of sorted: the k-th point (1-based) is
// (sorted[k-1], k/m).
func CDFPoints(sorted []int64) plotter.XYs {
	m := float64(len(sorted))
	pts := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		pts[i].X = float64(v)
		pts[i].Y = float64(i+1) / m
	}
	return pts
}

// cdfSeries filters s and returns its sorted CDF points and upper fence. The
// points are empty when every value lies outside the fences; the series is
// still drawn so the report shows the sample was there.
func cdfSeries(s Series) (plotter.XYs, float64, error) {
	if len(s.Steps) == 0 {
		return nil, 0, errors.NewNoDataError(s.Source)
	}
	f, err := sample.FilterOutliers(s.Steps)
	if err != nil {
		return nil, 0, err
	}
	if len(f.Values) == 0 {
		log.DefaultLogger().Warn("all successful runs lie outside the outlier fences",
			"file", s.Source, "runs", len(s.Steps), "upper", f.Upper)
	}
	sorted := slices.Clone(f.Values)
	slices.Sort(sorted)
	return CDFPoints(sorted), f.Upper, nil
}

// addLine adds l to p unless it has no points. An empty line keeps its legend
// entry.
func addLine(p *plot.Plot, l *plotter.Line) {
	if len(l.XYs) > 0 {
		p.Add(l)
	}
}

func cdfPlot(s Series) (*plot.Plot, error) {
	pts, upper, err := cdfSeries(s)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("CDF -'%s'", filepath.Base(s.Source))
	p.X.Label.Text = "Steps"
	p.Y.Label.Text = "Cumulative Probability"
	p.Add(plotter.NewGrid())

	l, err := newLine(pts, colorCyan, vg.Points(2), nil)
	if err != nil {
		return nil, err
	}
	addLine(p, l)

	p.X.Min, p.X.Max = 0, upper
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}

// CDF plots the empirical CDF of the outlier-filtered sample.
func CDF(s Series, output string, opts Options) error {
	p, err := cdfPlot(s)
	if err != nil {
		return err
	}
	w, h := opts.size(SingleWidth, SingleHeight)
	return save(p, w, h, output)
}

// overlayCDFPlot puts both filtered CDFs on one plot whose X axis runs to the
// larger of the two upper fences.
func overlayCDFPlot(a, b Series) (*plot.Plot, error) {
	ptsA, upperA, err := cdfSeries(a)
	if err != nil {
		return nil, err
	}
	ptsB, upperB, err := cdfSeries(b)
	if err != nil {
		return nil, err
	}
	label1, label2 := labels(a, b)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Overlayed CDF - '%s'", CommonName(a.Source))
	p.X.Label.Text = "Steps"
	p.Y.Label.Text = "Cumulative Probability"
	p.Legend.Top = false
	p.Legend.Left = false
	p.Add(plotter.NewGrid())

	la, err := newLine(ptsA, colorBlue, vg.Points(1.5), nil)
	if err != nil {
		return nil, err
	}
	lb, err := newLine(ptsB, colorGreen, vg.Points(1.5), nil)
	if err != nil {
		return nil, err
	}
	addLine(p, la)
	addLine(p, lb)
	p.Legend.Add(label1, la)
	p.Legend.Add(label2, lb)

	p.X.Min, p.X.Max = 0, max(upperA, upperB)
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}

// OverlayCDF plots the filtered CDFs of two samples on shared axes.
func OverlayCDF(a, b Series, output string, opts Options) error {
	p, err := overlayCDFPlot(a, b)
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
