// Package report renders step-count samples as CDF and histogram images.
//
// Every call builds and saves its own plot; nothing is shared between calls.
// The image format follows the output file extension (png, svg, pdf, jpg,
// eps, tif).
package report

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/ux"
)

// Default image sizes.
var (
	SingleWidth   = 6.4 * vg.Inch
	SingleHeight  = 4.8 * vg.Inch
	OverlayWidth  = 10 * vg.Inch
	OverlayHeight = 6 * vg.Inch
)

// Default legend labels for overlays.
const (
	DefaultLabel1 = "Algorithm 1"
	DefaultLabel2 = "Algorithm 2"
)

var (
	colorCyan  = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	colorBlue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	colorGreen = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	colorRed   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorFill  = color.NRGBA{R: 31, G: 119, B: 180, A: 178}

	dashed = []vg.Length{vg.Points(4), vg.Points(2)}
	dotted = []vg.Length{vg.Points(1), vg.Points(2)}
)

// Series is one summary log's sample.
type Series struct {
	// Source is the log path; its base name appears in titles.
	Source string
	// Label names the series in overlay legends.
	Label string
	Steps []int64
}

// Options tunes a report. The zero value gives the default size, automatic
// bins and unfiltered histograms.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Bins   BinRule
	// FilterOutliers bins the outlier-filtered sample in histograms. CDF
	// reports always filter.
	FilterOutliers bool
	// Out receives console output: the bin table and "Plot saved" lines.
	Out     io.Writer
	NoColor bool
}

func (o Options) size(w, h vg.Length) (vg.Length, vg.Length) {
	if o.Width > 0 {
		w = o.Width
	}
	if o.Height > 0 {
		h = o.Height
	}
	return w, h
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

func (o Options) styles() *ux.Styles {
	return ux.NewStyles(o.out(), o.NoColor)
}

// CommonName is the base name of path with the solver prefixes removed, used
// to title overlays of a gsat and a probsat log of the same instance.
func CommonName(path string) string {
	path = strings.ReplaceAll(path, "gsat2_", "")
	path = strings.ReplaceAll(path, "probsat_", "")
	return filepath.Base(path)
}

func labels(a, b Series) (string, string) {
	l1, l2 := a.Label, b.Label
	if l1 == "" {
		l1 = DefaultLabel1
	}
	if l2 == "" {
		l2 = DefaultLabel2
	}
	return l1, l2
}

func newLine(xys plotter.XYs, c color.Color, width vg.Length, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportRender, "cannot build line", err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = width
	l.LineStyle.Dashes = dashes
	return l, nil
}

// vline is a vertical marker at x from 0 to top.
func vline(x, top float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	return newLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}}, c, vg.Points(1), dashes)
}

func save(p *plot.Plot, w, h vg.Length, output string) error {
	if err := p.Save(w, h, output); err != nil {
		return errors.Wrap(errors.ErrCodeReportRender, fmt.Sprintf("cannot save plot to %s", output), err).
			WithSuggestion("Use one of the extensions .png, .svg, .pdf, .jpg, .eps, .tif")
	}
	return nil
}

func saved(opts Options, output string) {
	fmt.Fprintf(opts.out(), "Plot saved to %s\n", output)
}
